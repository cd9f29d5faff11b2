package storage

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/h918m/mazmorra/internal/domain"
)

func (s *ReplayService) Load(path string) (*domain.ReplaySession, error) {
	return LoadReplay(path)
}

// LoadReplay читает файл реплея
func LoadReplay(path string) (*domain.ReplaySession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadReplay(bufio.NewReader(f))
}

// ReadReplay декодирует формат MZRP
func ReadReplay(r io.Reader) (*domain.ReplaySession, error) {
	// 1. Читаем заголовок целиком
	var header ReplayFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.ActionCount < 0 {
		return nil, fmt.Errorf("negative action count: %d", header.ActionCount)
	}

	seed := make([]byte, header.SeedLen)
	if _, err := io.ReadFull(r, seed); err != nil {
		return nil, fmt.Errorf("failed to read seed: %w", err)
	}
	room := make([]byte, header.RoomLen)
	if _, err := io.ReadFull(r, room); err != nil {
		return nil, fmt.Errorf("failed to read room: %w", err)
	}

	session := &domain.ReplaySession{
		Room:      string(room),
		Progress:  int(header.Progress),
		Seed:      string(seed),
		Timestamp: header.Timestamp,
		Actions:   make([]domain.ReplayAction, header.ActionCount),
	}

	// 2. Читаем Actions
	for i := 0; i < int(header.ActionCount); i++ {
		var ah ActionHeader
		if err := binary.Read(r, binary.LittleEndian, &ah); err != nil {
			return nil, fmt.Errorf("failed to read action %d: %w", i, err)
		}

		act := domain.ReplayAction{
			Tick:   ah.Tick,
			Action: domain.ActionType(ah.ActionType),
		}

		client := make([]byte, ah.ClientIDLen)
		if _, err := io.ReadFull(r, client); err != nil {
			return nil, err
		}
		act.ClientID = string(client)

		if ah.PayloadLen > 0 {
			act.Payload = make(json.RawMessage, ah.PayloadLen)
			if _, err := io.ReadFull(r, act.Payload); err != nil {
				return nil, err
			}
		}

		session.Actions[i] = act
	}

	return session, nil
}
