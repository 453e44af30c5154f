// Package codegen generates the human-facing codes on orders, payments,
// users and products. The numeric part comes from a table-scoped counter,
// the random part from crypto/rand; uniqueness is backed by unique indexes
// and callers retry with a fresh random part on collision.
package codegen

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	upperCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	alnumCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	//payment_codeのランダムプレフィックス長
	paymentPrefixLen = 4
)

// ORD + yymmdd。連番はこのプレフィックス単位でリセットされる。
func OrderCodePrefix(t time.Time) string {
	return "ORD" + t.Format("060102")
}

// 12文字の注文コード（ORD + yymmdd + 3桁連番）
func OrderCode(t time.Time, seq int64) string {
	return fmt.Sprintf("%s%03d", OrderCodePrefix(t), seq%1000)
}

// 8文字の振込参照コード（ランダム4 + 4桁連番）。
// 衝突したら呼び出し側が新しいコードで再試行する。
func PaymentCode(seq int64) string {
	return fmt.Sprintf("%s%04d", randomFrom(upperCharset, paymentPrefixLen), seq%10000)
}

// uid_ + ランダム14文字（18文字）
func UserCode() string {
	return "uid_" + randomFrom(alnumCharset, 14)
}

// pid_ + ランダム14文字（18文字）
func ProductCode() string {
	return "pid_" + randomFrom(alnumCharset, 14)
}

func randomFrom(charset string, n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/randが失敗するのはOSエントロピーが壊れているときだけ
		panic(err)
	}
	for i := range buf {
		buf[i] = charset[int(buf[i])%len(charset)]
	}
	return string(buf)
}
