package envtools

import (
	"os"
	"strconv"
)

// rankSeedStride separates the seed ranges of distinct
// distributed workers, so that concurrently launched
// worker groups never share replica seeds.
const rankSeedStride = 10000

// Rank returns the rank of this process in a distributed
// worker group.
//
// The rank is taken from the environment variables set by
// common MPI launchers; without a launcher the rank is 0.
func Rank() int {
	for _, key := range []string{"OMPI_COMM_WORLD_RANK", "PMI_RANK", "PMIX_RANK"} {
		if str := os.Getenv(key); str != "" {
			if rank, err := strconv.Atoi(str); err == nil {
				return rank
			}
		}
	}
	return 0
}

// rankSeed offsets a base seed for a distributed rank.
// A nil seed stays nil: unseeded environments draw from
// an external entropy source.
func rankSeed(seed *int64, rank int) *int64 {
	if seed == nil {
		return nil
	}
	offset := *seed + rankSeedStride*int64(rank)
	return &offset
}

// replicaSeed offsets a base seed for a single replica.
func replicaSeed(seed *int64, replica int) *int64 {
	if seed == nil {
		return nil
	}
	offset := *seed + int64(replica)
	return &offset
}
