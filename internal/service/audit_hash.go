package service

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"
)

// genesisAuditHash seeds the chain of an account that has never been mutated.
const genesisAuditHash = "0000000000000000000000000000000000000000000000000000000000000000"

// ChainAuditHash links one balance mutation to the previous head of the
// account's audit chain:
//
//	BLAKE2b-256(prev || account_id || delta || balance_after || reason || unix_nanos)
//
// Integers are encoded big-endian so the digest is platform independent.
func ChainAuditHash(prev *string, accountID string, delta, balanceAfter int64, reason string, at time.Time) string {
	head := genesisAuditHash
	if prev != nil && *prev != "" {
		head = *prev
	}

	h, _ := blake2b.New256(nil) // nil key never errors
	var num [8]byte

	h.Write([]byte(head))
	h.Write([]byte(accountID))
	binary.BigEndian.PutUint64(num[:], uint64(delta))
	h.Write(num[:])
	binary.BigEndian.PutUint64(num[:], uint64(balanceAfter))
	h.Write(num[:])
	h.Write([]byte(reason))
	binary.BigEndian.PutUint64(num[:], uint64(at.UnixNano()))
	h.Write(num[:])

	return hex.EncodeToString(h.Sum(nil))
}

// VerifyAuditHash recomputes a link of the chain.
func VerifyAuditHash(expected string, prev *string, accountID string, delta, balanceAfter int64, reason string, at time.Time) bool {
	return ChainAuditHash(prev, accountID, delta, balanceAfter, reason, at) == expected
}
