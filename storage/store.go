package storage

import "errors"

var ErrSlotNotFound = errors.New("storage: slot not found")

// Store reads and writes one text blob per save slot.
type Store interface {
	Read(slot string) ([]byte, error)
	Write(slot string, data []byte) error
	Delete(slot string) error
}
