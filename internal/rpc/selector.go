package rpc

import (
	"context"
	"time"

	"github.com/Mohsinsiddi/multisender/internal/chain"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// probeTimeout bounds a single endpoint ping.
const probeTimeout = 5 * time.Second

// Probe pings every URL concurrently. Results keep the input order; a failed
// ping is recorded in Endpoint.Err rather than aborting the others.
func Probe(ctx context.Context, urls []string) []Endpoint {
	results := make([]Endpoint, len(urls))
	g, ctx := errgroup.WithContext(ctx)

	for i, u := range urls {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, probeTimeout)
			defer cancel()

			latency, block, err := chain.NewEVMClient(u).Ping(pctx)
			results[i] = Endpoint{URL: u, Latency: latency, BlockNumber: block, Err: err}
			log.WithFields(log.Fields{
				"url":     u,
				"latency": latency,
				"block":   block,
			}).WithError(err).Debug("rpc probe")
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Best returns the best endpoint out of urls using the fastest algorithm.
func Best(ctx context.Context, urls []string) (string, error) {
	return SelectBest(ctx, urls, string(AlgorithmFastest))
}

// SelectBest probes urls and picks one with the named algorithm
// ("fastest" or "failover"; empty means fastest). A single URL is returned
// without probing.
func SelectBest(ctx context.Context, urls []string, algorithm string) (string, error) {
	if len(urls) == 0 {
		return "", ErrNoHealthyRPC
	}
	if len(urls) == 1 {
		return urls[0], nil
	}
	winner, err := Pick(Probe(ctx, urls), ParseAlgorithm(algorithm))
	if err != nil {
		return "", err
	}
	return winner.URL, nil
}
