package sync

import (
	"encoding/binary"
	"strconv"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/spaolacci/murmur3"
)

// ring is a consistent hash ring over the shard indexes [0, shards).
type ring struct {
	points *treemap.Map

	// first is the shard at the lowest ring position, used when a key hashes
	// past the last point.
	first int
}

// newRing places replicas points on the ring for each shard.
func newRing(shards, replicas uint) *ring {
	points := treemap.NewWith(utils.Int64Comparator)

	for shard := 0; shard < int(shards); shard++ {
		shardHash, _ := murmur3.Sum128([]byte("shard" + strconv.Itoa(shard)))

		var buf [12]byte
		binary.LittleEndian.PutUint64(buf[:8], shardHash)
		for replica := 0; replica < int(replicas); replica++ {
			binary.LittleEndian.PutUint32(buf[8:], uint32(replica))
			h, _ := murmur3.Sum128(buf[:])
			points.Put(int64(h), shard)
		}
	}

	r := &ring{points: points}
	if _, first := points.Min(); first != nil {
		r.first = first.(int)
	}
	return r
}

// shard returns the shard that owns key.
func (r *ring) shard(key []byte) int {
	h, _ := murmur3.Sum128(key)
	if _, shard := r.points.Ceiling(int64(h)); shard != nil {
		return shard.(int)
	}
	return r.first
}
