package crypto

// MerkleRoot computes the Merkle root over a list of transaction ids.
//
// Leaves are concatenated as their ASCII text, not decoded from hex, then
// hashed with a single round of SHA-256 - mirroring how transaction and
// block ids are themselves opaque strings rather than raw digests. An odd
// level duplicates its last entry before pairing. An empty block has no
// leaves to root, so it reports the sentinel "0" rather than a hash.
func MerkleRoot(txIDs []string) string {
	if len(txIDs) == 0 {
		return "0"
	}

	level := make([]string, len(txIDs))
	copy(level, txIDs)

	if len(level) == 1 {
		return HexDigest([]byte(level[0] + level[0]))
	}

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}

		next := make([]string, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next = append(next, HexDigest([]byte(level[i]+level[i+1])))
		}
		level = next
	}

	return level[0]
}
