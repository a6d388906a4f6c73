package graph

import (
	"encoding/binary"
	"encoding/hex"
	"sort"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a stable hex digest of the snapshot's node and edge
// identity. Coordinates and labels are excluded, so a relayout or a label
// reload does not change the fingerprint; clients use it to detect an
// unchanged graph without diffing the full payload.
func (s *Snapshot) Fingerprint() string {
	nodeIDs := make([]int64, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		nodeIDs = append(nodeIDs, int64(n.ID))
	}
	sort.Slice(nodeIDs, func(i, j int) bool { return nodeIDs[i] < nodeIDs[j] })

	edges := make([]Edge, len(s.Edges))
	copy(edges, s.Edges)
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Code < b.Code
	})

	h, _ := blake2b.New256(nil)
	var buf [8]byte
	writeInt := func(v int64) {
		binary.BigEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}

	writeInt(int64(len(nodeIDs)))
	for _, id := range nodeIDs {
		writeInt(id)
	}
	writeInt(int64(len(edges)))
	for _, e := range edges {
		writeInt(int64(e.Source))
		writeInt(int64(e.Target))
		h.Write([]byte(e.Type))
		writeInt(int64(e.Code))
	}

	return hex.EncodeToString(h.Sum(nil))
}
