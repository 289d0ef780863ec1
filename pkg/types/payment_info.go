package types

import (
	"database/sql/driver"
	"encoding/json"
)

// WalletAccount is the holder and phone number of a mobile wallet.
type WalletAccount struct {
	Holder string `json:"holder"`
	Number string `json:"number"`
}

// PaymentInfo carries the manual payment instructions shown at checkout.
type PaymentInfo struct {
	Yape WalletAccount `json:"yape"`
	Plin WalletAccount `json:"plin"`
}

func (p PaymentInfo) Value() (driver.Value, error) {
	buf, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func (p *PaymentInfo) Scan(value any) error {
	if value == nil {
		*p = PaymentInfo{}
		return nil
	}
	var out PaymentInfo
	if err := scanJSON("payment_info", value, &out); err != nil {
		return err
	}
	*p = out
	return nil
}
