package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/h918m/mazmorra/internal/domain"
)

const (
	MagicHeader string = `MZRP` // 4 байта
	Version1    uint32 = 1
)

// ReplayFileHeader - фиксированная часть заголовка файла.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк, только массивы и числа.
// За ней идут байты сида (SeedLen) и имени комнаты (RoomLen).
type ReplayFileHeader struct {
	Magic       [4]byte // 4 байта
	Version     uint32  // 4 байта
	Timestamp   int64   // 8 байт
	Progress    int32   // 4 байта
	ActionCount int32   // 4 байта
	SeedLen     uint16  // 2 байта
	RoomLen     uint8   // 1 байт
}

// ActionHeader - заголовок каждой записи действия.
type ActionHeader struct {
	Tick        int64  // 8
	ActionType  uint8  // 1
	ClientIDLen uint8  // 1
	PayloadLen  uint32 // 4
}

type ReplayService struct {
	SaveDir string
}

func NewReplayService(dir string) (*ReplayService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create replay dir: %w", err)
	}
	return &ReplayService{SaveDir: dir}, nil
}

// Save пишет сессию в файл и возвращает его путь
func (s *ReplayService) Save(session *domain.ReplaySession) (string, error) {
	filename := fmt.Sprintf("replay_%s_p%d_%d.mzrp", session.Room, session.Progress, session.Timestamp)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := WriteReplay(w, session); err != nil {
		return "", err
	}
	return path, w.Flush()
}

// WriteReplay кодирует сессию в бинарный формат MZRP
func WriteReplay(w io.Writer, s *domain.ReplaySession) error {
	seed, room := []byte(s.Seed), []byte(s.Room)
	if len(seed) > 65535 {
		return fmt.Errorf("seed too long: %d", len(seed))
	}
	if len(room) > 255 {
		return fmt.Errorf("room name too long: %d", len(room))
	}

	// 1. Подготавливаем и пишем ГЛОБАЛЬНЫЙ ЗАГОЛОВОК
	header := ReplayFileHeader{
		Version:     Version1,
		Timestamp:   s.Timestamp,
		Progress:    int32(s.Progress),
		ActionCount: int32(len(s.Actions)),
		SeedLen:     uint16(len(seed)),
		RoomLen:     uint8(len(room)),
	}
	copy(header.Magic[:], MagicHeader) // Копируем строку в массив [4]byte

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(seed); err != nil {
		return err
	}
	if _, err := w.Write(room); err != nil {
		return err
	}

	// 2. Пишем действия
	for _, act := range s.Actions {
		client := []byte(act.ClientID)
		if len(client) > 255 {
			return fmt.Errorf("client id too long: %d", len(client))
		}

		actHeader := ActionHeader{
			Tick:        act.Tick,
			ActionType:  uint8(act.Action),
			ClientIDLen: uint8(len(client)),
			PayloadLen:  uint32(len(act.Payload)),
		}
		if err := binary.Write(w, binary.LittleEndian, &actHeader); err != nil {
			return err
		}

		// Пишем динамические данные (тело)
		if _, err := w.Write(client); err != nil {
			return err
		}
		if len(act.Payload) > 0 {
			if _, err := w.Write(act.Payload); err != nil {
				return err
			}
		}
	}

	return nil
}
