// Copyright 2025.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package services

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strings"

	"go.uber.org/zap"

	"github.com/Adembc/eicproxy/internal/core/domain"
	"github.com/Adembc/eicproxy/internal/core/ports"
)

const (
	filterTagName    = "tag:Name"
	filterState      = "instance-state-name"
	filterZone       = "availability-zone"
	filterPrivateIP  = "private-ip-address"
	filterPublicIP   = "ip-address"
	filterIPv6       = "network-interface.ipv6-addresses.ipv6-address"
	filterPrivateDNS = "private-dns-name"
	filterPublicDNS  = "dns-name"
)

// liveStates are the instance states a name or address search may match.
var liveStates = []string{"pending", "running"}

// TargetResolver maps instance bundles to concrete endpoints.
type TargetResolver struct {
	describer ports.InstanceDescriber
	lookup    ports.HostLookup
	policy    RetryPolicy
	logger    *zap.SugaredLogger
}

// NewTargetResolver creates a new instance of TargetResolver.
func NewTargetResolver(logger *zap.SugaredLogger, describer ports.InstanceDescriber, lookup ports.HostLookup, policy RetryPolicy) *TargetResolver {
	return &TargetResolver{
		describer: describer,
		lookup:    lookup,
		policy:    policy,
		logger:    logger,
	}
}

// NewBundle turns a parsed descriptor and the command-line options into an
// unresolved bundle. The explicit instance id flag only applies to the final
// target; jump hosts are always resolved from their own token.
func NewBundle(desc domain.ConnectionDescriptor, opts domain.Options, isTarget bool) (*domain.InstanceBundle, error) {
	bundle := &domain.InstanceBundle{
		Profile:   opts.Profile,
		Region:    opts.Region,
		Zone:      opts.Zone,
		HostToken: desc.HostToken,
		User:      desc.User,
		Port:      desc.Port,
	}

	if isTarget && opts.InstanceID != "" {
		if !isInstanceID(opts.InstanceID) {
			return nil, domain.NewError(domain.ErrInvalidTarget,
				fmt.Sprintf("invalid instance id %q", opts.InstanceID))
		}
		bundle.Mode = domain.ResolveByInstanceID
		bundle.ExplicitInstanceID = opts.InstanceID
		bundle.TokenType = domain.HostTokenInstanceID
		return bundle, nil
	}

	if opts.UseTagName {
		bundle.Mode = domain.ResolveByTagName
		return bundle, nil
	}

	tokenType, err := ClassifyTarget(desc.HostToken)
	if err != nil {
		return nil, err
	}
	bundle.TokenType = tokenType

	switch {
	case tokenType == domain.HostTokenInstanceID:
		bundle.Mode = domain.ResolveByInstanceID
	case opts.ResolveHostname:
		bundle.Mode = domain.ResolveByHostnameLookup
	default:
		return nil, domain.NewError(domain.ErrInvalidTarget,
			fmt.Sprintf("target %q is not an instance id; use -t, --use-tag-name or --resolve-hostname", desc.HostToken))
	}
	return bundle, nil
}

// Resolve describes the instance behind the bundle and attaches its endpoint.
func (r *TargetResolver) Resolve(ctx context.Context, bundle *domain.InstanceBundle) error {
	var (
		endpoints []domain.InstanceEndpoint
		err       error
	)

	r.logger.Debugw("resolving target", "target", bundle.Label(), "mode", bundle.Mode,
		"profile", bundle.Profile, "region", bundle.Region, "zone", bundle.Zone)

	switch bundle.Mode {
	case domain.ResolveByInstanceID:
		id := bundle.ExplicitInstanceID
		if id == "" {
			id = bundle.HostToken
		}
		endpoints, err = r.describe(ctx, bundle, domain.InstanceFilter{InstanceIDs: []string{id}})
	case domain.ResolveByTagName:
		endpoints, err = r.describe(ctx, bundle, r.liveFilter(bundle, filterTagName, []string{bundle.HostToken}))
	case domain.ResolveByHostnameLookup:
		endpoints, err = r.resolveByAddress(ctx, bundle)
	default:
		return fmt.Errorf("unknown resolution mode %q", bundle.Mode)
	}
	if err != nil {
		return err
	}

	endpoint, err := pickOne(endpoints, bundle)
	if err != nil {
		return err
	}

	if strings.TrimSpace(endpoint.AvailabilityZone) == "" {
		return domain.NewError(domain.ErrZoneNotFound,
			fmt.Sprintf("instance zone information not found for %s", endpoint.InstanceID))
	}
	if !endpoint.HasAddress() {
		return domain.NewError(domain.ErrNoAddress,
			fmt.Sprintf("no hostname or IPs found for %s", endpoint.InstanceID))
	}

	if err := bundle.Attach(endpoint); err != nil {
		return err
	}

	r.logger.Infow("target resolved", "target", bundle.Label(), "instance_id", endpoint.InstanceID,
		"zone", endpoint.AvailabilityZone, "public_ip", endpoint.PublicIP, "private_ip", endpoint.PrivateIP)
	return nil
}

func (r *TargetResolver) liveFilter(bundle *domain.InstanceBundle, name string, values []string) domain.InstanceFilter {
	filters := map[string][]string{
		name:        values,
		filterState: liveStates,
	}
	if bundle.Zone != "" {
		filters[filterZone] = []string{bundle.Zone}
	}
	return domain.InstanceFilter{Filters: filters}
}

// resolveByAddress finds instances owning the token's addresses. DNS tokens
// are looked up first and also matched against the instance DNS names.
func (r *TargetResolver) resolveByAddress(ctx context.Context, bundle *domain.InstanceBundle) ([]domain.InstanceEndpoint, error) {
	var addrs []string
	if bundle.TokenType.IsIP() {
		addrs = []string{bundle.HostToken}
	} else {
		lookupCtx, cancel := context.WithTimeout(ctx, r.policy.normalized().Timeout)
		defer cancel()

		resolved, err := r.lookup.LookupHost(lookupCtx, bundle.HostToken)
		if err != nil {
			return nil, domain.WrapError(domain.ErrInstanceNotFound,
				fmt.Sprintf("unable to resolve hostname %s", bundle.HostToken), err)
		}
		addrs = resolved
	}

	var v4, v6 []string
	for _, a := range addrs {
		ip, err := netip.ParseAddr(a)
		if err != nil {
			continue
		}
		if ip.Is4() || ip.Is4In6() {
			v4 = append(v4, ip.Unmap().String())
		} else {
			v6 = append(v6, ip.String())
		}
	}

	var queries []domain.InstanceFilter
	if len(v4) > 0 {
		queries = append(queries,
			r.liveFilter(bundle, filterPrivateIP, v4),
			r.liveFilter(bundle, filterPublicIP, v4))
	}
	if len(v6) > 0 {
		queries = append(queries, r.liveFilter(bundle, filterIPv6, v6))
	}
	if bundle.TokenType == domain.HostTokenDNSHostname {
		name := strings.TrimSuffix(bundle.HostToken, ".")
		queries = append(queries,
			r.liveFilter(bundle, filterPrivateDNS, []string{name}),
			r.liveFilter(bundle, filterPublicDNS, []string{name}))
	}

	seen := map[string]struct{}{}
	var endpoints []domain.InstanceEndpoint
	for _, q := range queries {
		found, err := r.describe(ctx, bundle, q)
		if err != nil {
			return nil, err
		}
		for _, ep := range found {
			if _, ok := seen[ep.InstanceID]; ok {
				continue
			}
			seen[ep.InstanceID] = struct{}{}
			endpoints = append(endpoints, ep)
		}
	}
	return endpoints, nil
}

func (r *TargetResolver) describe(ctx context.Context, bundle *domain.InstanceBundle, filter domain.InstanceFilter) ([]domain.InstanceEndpoint, error) {
	var endpoints []domain.InstanceEndpoint
	err := r.policy.do(ctx, func(ctx context.Context) error {
		var err error
		endpoints, err = r.describer.DescribeInstances(ctx, bundle.Scope(), filter)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrInstanceNotFound) {
			return nil, domain.WrapError(domain.ErrInstanceNotFound,
				fmt.Sprintf("instance %s not found", bundle.Label()), err)
		}
		r.logger.Errorw("describe instances failed", "target", bundle.Label(), "error", err)
		return nil, fmt.Errorf("describe instances for %s: %w", bundle.Label(), err)
	}
	return endpoints, nil
}

func pickOne(endpoints []domain.InstanceEndpoint, bundle *domain.InstanceBundle) (domain.InstanceEndpoint, error) {
	switch len(endpoints) {
	case 0:
		return domain.InstanceEndpoint{}, domain.NewError(domain.ErrInstanceNotFound,
			fmt.Sprintf("no instance found for %s", bundle.Label()))
	case 1:
		return endpoints[0], nil
	default:
		ids := make([]string, 0, len(endpoints))
		for _, ep := range endpoints {
			ids = append(ids, ep.InstanceID)
		}
		return domain.InstanceEndpoint{}, domain.NewError(domain.ErrAmbiguousResolution,
			fmt.Sprintf("%d instances match %s: %s", len(endpoints), bundle.Label(), strings.Join(ids, ", ")))
	}
}
