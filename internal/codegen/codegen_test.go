package codegen_test

import (
	"testing"
	"time"

	"easybuy/internal/codegen"

	"github.com/stretchr/testify/assert"
)

func TestOrderCode_Format(t *testing.T) {
	at := time.Date(2025, 9, 1, 10, 30, 0, 0, time.UTC)

	code := codegen.OrderCode(at, 1)
	assert.Equal(t, "ORD250901001", code)
	assert.Equal(t, 12, len(code))

	code = codegen.OrderCode(at, 42)
	assert.Equal(t, "ORD250901042", code)
}

func TestOrderCodePrefix(t *testing.T) {
	at := time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "ORD251231", codegen.OrderCodePrefix(at))
}

func TestPaymentCode_Format(t *testing.T) {
	code := codegen.PaymentCode(1)

	assert.Equal(t, 8, len(code))
	//後半4桁は連番
	assert.Equal(t, "0001", code[4:])
	//前半4文字は英大文字か数字
	for _, ch := range code[:4] {
		ok := (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
		assert.True(t, ok, "unexpected char %q in %q", ch, code)
	}
}

func TestPaymentCode_RandomPrefixVaries(t *testing.T) {
	//同じ連番でもランダム部で衝突しにくいこと
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[codegen.PaymentCode(7)] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestUserCode_Format(t *testing.T) {
	code := codegen.UserCode()

	assert.Equal(t, 18, len(code))
	assert.Equal(t, "uid_", code[:4])
}

func TestProductCode_Format(t *testing.T) {
	code := codegen.ProductCode()

	assert.Equal(t, 18, len(code))
	assert.Equal(t, "pid_", code[:4])
}
