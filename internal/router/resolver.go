// Package router resolves trading paths between registered assets and
// computes the slippage bounds enforced on execution.
package router

import (
	"errors"
	"fmt"

	"github.com/quartzlabs/swap-engine/internal/domain"
	"github.com/quartzlabs/swap-engine/internal/registry"
)

var ErrSameAsset = errors.New("cannot route an asset to itself")

type Resolver struct {
	registry *registry.Registry
}

func NewResolver(reg *registry.Registry) *Resolver {
	return &Resolver{registry: reg}
}

// Resolve maps a (from, to) symbol pair to a Route. Pairs touching the hub
// come back direct; everything else routes through the hub in two hops.
func (r *Resolver) Resolve(from, to string) (domain.Route, error) {
	if from == to {
		return domain.Route{}, fmt.Errorf("%w: %s", ErrSameAsset, from)
	}
	in, err := r.registry.Lookup(from)
	if err != nil {
		return domain.Route{}, err
	}
	out, err := r.registry.Lookup(to)
	if err != nil {
		return domain.Route{}, err
	}

	if in.IsHub || out.IsHub {
		pool := in.Pool
		if in.IsHub {
			pool = out.Pool
		}
		return domain.Route{
			Kind:       domain.RouteDirect,
			TokenIn:    in.Asset,
			TokenOut:   out.Asset,
			Pool:       pool,
			ZeroForOne: in.Asset.Address == pool.Currency0,
		}, nil
	}

	return domain.Route{
		Kind:     domain.RouteHub,
		TokenIn:  in.Asset,
		TokenOut: out.Asset,
		Hub:      r.registry.Hub(),
		PoolIn:   in.Pool,
		PoolOut:  out.Pool,
	}, nil
}
