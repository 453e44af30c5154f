package usecase

import (
	"context"
	"net/http"
	"strings"

	"easybuy/internal/domain/model"
	repo "easybuy/internal/repository"
)

type AddressUsecase struct {
	addressRepo repo.AddressRepository
}

func NewAddressUsecase(addressRepo repo.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addressRepo: addressRepo}
}

type AddressInput struct {
	AddressDetail string `json:"address_detail"`
	ProvinceName  string `json:"province_name"`
	DistrictName  string `json:"district_name"`
	WardName      string `json:"ward_name"`
	CustomerName  string `json:"customer_name"`
	PhoneNumber   string `json:"phone_number"`
	IsDefault     bool   `json:"is_default"`
}

type AddressOutput struct {
	ID            int64  `json:"id"`
	AddressDetail string `json:"address_detail"`
	ProvinceName  string `json:"province_name"`
	DistrictName  string `json:"district_name"`
	WardName      string `json:"ward_name"`
	CustomerName  string `json:"customer_name"`
	PhoneNumber   string `json:"phone_number"`
	IsDefault     bool   `json:"is_default"`
	FullAddress   string `json:"full_address"`
}

func (in AddressInput) validate() error {
	if strings.TrimSpace(in.AddressDetail) == "" ||
		strings.TrimSpace(in.ProvinceName) == "" ||
		strings.TrimSpace(in.DistrictName) == "" ||
		strings.TrimSpace(in.WardName) == "" ||
		strings.TrimSpace(in.CustomerName) == "" ||
		strings.TrimSpace(in.PhoneNumber) == "" {
		return NewHTTPError(http.StatusBadRequest, "missing address fields")
	}
	return nil
}

// CreateAddress は住所を追加する。最初の1件は自動でデフォルトになる。
func (u *AddressUsecase) CreateAddress(ctx context.Context, userID int64, in AddressInput) (AddressOutput, error) {
	if userID <= 0 {
		return AddressOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return AddressOutput{}, err
	}

	//1件も無ければ強制的にデフォルトにする
	_, err := u.addressRepo.FindDefaultByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		in.IsDefault = true
	} else if err != nil {
		return AddressOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	created, err := u.addressRepo.Create(ctx, model.Address{
		UserID:        userID,
		AddressDetail: in.AddressDetail,
		ProvinceName:  in.ProvinceName,
		DistrictName:  in.DistrictName,
		WardName:      in.WardName,
		CustomerName:  in.CustomerName,
		PhoneNumber:   in.PhoneNumber,
		IsDefault:     in.IsDefault,
	})
	if err != nil {
		return AddressOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//デフォルト指定なら他の住所のフラグを落とす
	if in.IsDefault {
		if err := u.addressRepo.SetDefault(ctx, userID, created.ID); err != nil {
			return AddressOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		created.IsDefault = true
	}

	return toAddressOutput(created), nil
}

func (u *AddressUsecase) ListAddresses(ctx context.Context, userID int64) ([]AddressOutput, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	addrs, err := u.addressRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]AddressOutput, 0, len(addrs))
	for _, a := range addrs {
		outs = append(outs, toAddressOutput(a))
	}
	return outs, nil
}

func (u *AddressUsecase) GetDefaultAddress(ctx context.Context, userID int64) (AddressOutput, error) {
	if userID <= 0 {
		return AddressOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	a, err := u.addressRepo.FindDefaultByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return AddressOutput{}, NewHTTPError(http.StatusNotFound, "default address not found")
	}
	if err != nil {
		return AddressOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toAddressOutput(a), nil
}

func (u *AddressUsecase) UpdateAddress(ctx context.Context, userID int64, addressID int64, in AddressInput) (AddressOutput, error) {
	if userID <= 0 {
		return AddressOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return AddressOutput{}, err
	}
	if err := u.checkOwner(ctx, addressID, userID); err != nil {
		return AddressOutput{}, err
	}

	current, err := u.addressRepo.FindByID(ctx, addressID)
	if err == repo.ErrNotFound {
		return AddressOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return AddressOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	current.AddressDetail = in.AddressDetail
	current.ProvinceName = in.ProvinceName
	current.DistrictName = in.DistrictName
	current.WardName = in.WardName
	current.CustomerName = in.CustomerName
	current.PhoneNumber = in.PhoneNumber

	if err := u.addressRepo.Update(ctx, current); err != nil {
		return AddressOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.IsDefault && !current.IsDefault {
		if err := u.addressRepo.SetDefault(ctx, userID, addressID); err != nil {
			return AddressOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		current.IsDefault = true
	}

	return toAddressOutput(current), nil
}

// SetDefaultAddress はデフォルト住所を切り替える。常にちょうど1件になる。
func (u *AddressUsecase) SetDefaultAddress(ctx context.Context, userID int64, addressID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.checkOwner(ctx, addressID, userID); err != nil {
		return err
	}

	if err := u.addressRepo.SetDefault(ctx, userID, addressID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// DeleteAddress は住所を削除する。デフォルト住所の削除は付け替えてからにしてもらう。
func (u *AddressUsecase) DeleteAddress(ctx context.Context, userID int64, addressID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.checkOwner(ctx, addressID, userID); err != nil {
		return err
	}

	a, err := u.addressRepo.FindByID(ctx, addressID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if a.IsDefault {
		return NewHTTPError(http.StatusConflict, "cannot delete default address")
	}

	if err := u.addressRepo.Delete(ctx, addressID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AddressUsecase) checkOwner(ctx context.Context, addressID, userID int64) error {
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.addressRepo.IsOwnedByUser(ctx, addressID, userID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	return nil
}

func toAddressOutput(a model.Address) AddressOutput {
	return AddressOutput{
		ID:            a.ID,
		AddressDetail: a.AddressDetail,
		ProvinceName:  a.ProvinceName,
		DistrictName:  a.DistrictName,
		WardName:      a.WardName,
		CustomerName:  a.CustomerName,
		PhoneNumber:   a.PhoneNumber,
		IsDefault:     a.IsDefault,
		FullAddress:   a.FullAddress(),
	}
}
