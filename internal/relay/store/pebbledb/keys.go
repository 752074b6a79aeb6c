package pebbledb

import (
	"encoding/binary"

	"github.com/goodnatureofminers/txrelay/internal/model"
)

const (
	recordPrefix = "t/"
	statusPrefix = "s/"
	finalPrefix  = "f/"
	tipKey       = "w"
)

func recordKey(hash string) []byte {
	return []byte(recordPrefix + hash)
}

func statusIndexPrefix(status model.Status) []byte {
	return []byte(statusPrefix + string(status) + "/")
}

const (
	statusHeaderLen = 9
	finalHeaderLen  = 8
)

// statusKey orders records of one status by the slot of their last attempt.
// Pending records sort by priority first.
func statusKey(tx model.Transaction) []byte {
	var rank byte
	if tx.Status == model.StatusPending {
		rank = tx.Priority.Rank()
	}
	key := append(statusIndexPrefix(tx.Status), rank)
	key = binary.BigEndian.AppendUint64(key, tx.LastAttemptSlot)
	return append(key, tx.Hash...)
}

func finalIndexPrefix(status model.Status) []byte {
	return []byte(finalPrefix + string(status) + "/")
}

func finalKey(status model.Status, slot uint64, hash string) []byte {
	key := finalIndexPrefix(status)
	key = binary.BigEndian.AppendUint64(key, slot)
	return append(key, hash...)
}

func finalSlotBound(status model.Status, slot uint64) []byte {
	return binary.BigEndian.AppendUint64(finalIndexPrefix(status), slot)
}

// hashFromIndexKey strips the prefix and the header of headerLen bytes that
// follows it.
func hashFromIndexKey(prefix []byte, headerLen int, key []byte) string {
	if len(key) < len(prefix)+headerLen {
		return ""
	}
	return string(key[len(prefix)+headerLen:])
}

// upperBound returns the smallest key greater than every key with the prefix.
func upperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
