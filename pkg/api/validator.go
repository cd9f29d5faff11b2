package api

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/h918m/mazmorra/internal/domain"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p MovePayload) Validate() error {
	if p.X < 0 || p.Y < 0 {
		return errors.New("position cannot be negative")
	}
	return nil
}

func (p DistributePointPayload) Validate() error {
	if _, ok := domain.ParseAttribute(p.Attribute); !ok {
		return errors.New("unknown attribute")
	}
	return nil
}

func (p InventoryDragPayload) Validate() error {
	if err := validateContainer(p.FromType, true); err != nil {
		return err
	}
	if err := validateContainer(p.ToType, true); err != nil {
		return err
	}
	return validateItem(p.ItemID)
}

func (p InventorySellPayload) Validate() error {
	if err := validateContainer(p.FromType, true); err != nil {
		return err
	}
	return validateItem(p.ItemID)
}

func (p ItemPayload) Validate() error {
	if err := validateContainer(p.InventoryType, true); err != nil {
		return err
	}
	return validateItem(p.ItemID)
}

func (p CastPayload) Validate() error {
	if err := validateContainer(p.InventoryType, false); err != nil {
		return err
	}
	if p.Position.X < 0 || p.Position.Y < 0 {
		return errors.New("position cannot be negative")
	}
	return validateItem(p.ItemID)
}

func (p CheckpointPayload) Validate() error {
	if p.Progress < 1 {
		return errors.New("progress must be positive")
	}
	return nil
}

func (p MessagePayload) Validate() error {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return errors.New("text is required")
	}
	if utf8.RuneCountInString(text) > domain.MaxChatLength {
		return errors.New("text too long")
	}
	return nil
}

func validateContainer(t domain.InventoryType, allowEquip bool) error {
	switch t {
	case domain.InventoryMain, domain.InventoryQuick:
		return nil
	case domain.InventoryEquip:
		if allowEquip {
			return nil
		}
	}
	return errors.New("unknown inventory type")
}

func validateItem(id domain.EntityID) error {
	if id.IsNil() {
		return errors.New("itemId is required")
	}
	return nil
}
