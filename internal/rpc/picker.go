package rpc

import (
	"errors"
	"sort"
	"time"
)

// ErrNoHealthyRPC is returned when no healthy RPC endpoint is available.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Algorithm defines how an RPC endpoint is selected.
type Algorithm string

const (
	// AlgorithmFastest prefers the most synced node, then the lowest latency.
	AlgorithmFastest Algorithm = "fastest"
	// AlgorithmFailover takes the first healthy endpoint in configured order.
	AlgorithmFailover Algorithm = "failover"

	// Discard nodes more than this many blocks behind the best.
	staleBlockThreshold = 3
)

// ParseAlgorithm maps a config value to an Algorithm; unknown or empty is fastest.
func ParseAlgorithm(s string) Algorithm {
	if Algorithm(s) == AlgorithmFailover {
		return AlgorithmFailover
	}
	return AlgorithmFastest
}

// Endpoint is one probed RPC endpoint.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Err         error
}

// Healthy reports whether the probe succeeded.
func (e Endpoint) Healthy() bool { return e.Err == nil }

// Pick selects an endpoint from probed results according to algo.
func Pick(endpoints []Endpoint, algo Algorithm) (*Endpoint, error) {
	if algo == AlgorithmFailover {
		for i := range endpoints {
			if endpoints[i].Healthy() {
				return &endpoints[i], nil
			}
		}
		return nil, ErrNoHealthyRPC
	}
	return pickFastest(endpoints)
}

func pickFastest(endpoints []Endpoint) (*Endpoint, error) {
	var bestBlock uint64
	candidates := make([]*Endpoint, 0, len(endpoints))
	for i := range endpoints {
		e := &endpoints[i]
		if !e.Healthy() {
			continue
		}
		candidates = append(candidates, e)
		if e.BlockNumber > bestBlock {
			bestBlock = e.BlockNumber
		}
	}

	fresh := candidates[:0]
	for _, e := range candidates {
		if bestBlock-e.BlockNumber <= staleBlockThreshold {
			fresh = append(fresh, e)
		}
	}
	if len(fresh) == 0 {
		return nil, ErrNoHealthyRPC
	}

	sort.SliceStable(fresh, func(i, j int) bool {
		if fresh[i].BlockNumber != fresh[j].BlockNumber {
			return fresh[i].BlockNumber > fresh[j].BlockNumber
		}
		return fresh[i].Latency < fresh[j].Latency
	})
	return fresh[0], nil
}
