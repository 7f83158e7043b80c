package services

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// RechargePin is one printable recharge voucher.
type RechargePin struct {
	Serial string `json:"serial"`
	PIN    string `json:"pin"`
}

type PinGenerator func(network string, quantity int) ([]RechargePin, error)

func randomPins(network string, quantity int) ([]RechargePin, error) {
	pins := make([]RechargePin, 0, quantity)
	for range quantity {
		serial, err := randomDigits(10)
		if err != nil {
			return nil, err
		}
		pin, err := randomDigits(16)
		if err != nil {
			return nil, err
		}
		pins = append(pins, RechargePin{
			Serial: strings.ToUpper(network) + serial,
			PIN:    pin,
		})
	}
	return pins, nil
}

func randomDigits(n int) (string, error) {
	var b strings.Builder
	ten := big.NewInt(10)
	for range n {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
