package portfolio

import (
	"encoding/base64"
	"fmt"

	"github.com/roach88/revlog/internal/ir"
)

// Coin is a tracked crypto asset.
type Coin struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Image  []byte `json:"image"`
}

// Stakeholder is a party with a stake in the portfolio.
type Stakeholder struct {
	Name string `json:"name"`
}

// StakeholderProfile is an agent's public profile.
type StakeholderProfile struct {
	Name string `json:"name"`
}

func encodeCoin(c Coin) ir.Object {
	return ir.Object{
		"id":     ir.String(c.ID),
		"name":   ir.String(c.Name),
		"symbol": ir.String(c.Symbol),
		"image":  ir.String(base64.StdEncoding.EncodeToString(c.Image)),
	}
}

func decodeCoin(obj ir.Object) (Coin, error) {
	var c Coin
	var err error
	if c.ID, err = stringField(obj, "id"); err != nil {
		return Coin{}, err
	}
	if c.Name, err = stringField(obj, "name"); err != nil {
		return Coin{}, err
	}
	if c.Symbol, err = stringField(obj, "symbol"); err != nil {
		return Coin{}, err
	}
	image, err := stringField(obj, "image")
	if err != nil {
		return Coin{}, err
	}
	if c.Image, err = base64.StdEncoding.DecodeString(image); err != nil {
		return Coin{}, fmt.Errorf("field %q: %w", "image", err)
	}
	return c, nil
}

func encodeStakeholder(s Stakeholder) ir.Object {
	return ir.Object{"name": ir.String(s.Name)}
}

func decodeStakeholder(obj ir.Object) (Stakeholder, error) {
	name, err := stringField(obj, "name")
	return Stakeholder{Name: name}, err
}

func encodeProfile(p StakeholderProfile) ir.Object {
	return ir.Object{"name": ir.String(p.Name)}
}

func decodeProfile(obj ir.Object) (StakeholderProfile, error) {
	name, err := stringField(obj, "name")
	return StakeholderProfile{Name: name}, err
}

func stringField(obj ir.Object, key string) (string, error) {
	v, ok := obj[key]
	if !ok {
		return "", fmt.Errorf("missing field %q", key)
	}
	s, ok := v.(ir.String)
	if !ok {
		return "", fmt.Errorf("field %q: want string, got %T", key, v)
	}
	return string(s), nil
}
