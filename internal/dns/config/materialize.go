package config

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/pulsedns/pulse-dns/internal/dns/domain"
	"github.com/pulsedns/pulse-dns/internal/dns/gateways/dnssec"
)

// ServerConfig is the validated, materialized form of AppConfig: domain
// values ready to hand to the zone engine and the UDP server.
type ServerConfig struct {
	Origins      domain.ZoneOrigins
	NameServers  []string // absolute hostnames, first is the SOA MNAME
	Sets         []domain.EndpointSet
	Key          *dnssec.Key // nil when the zone is served unsigned
	MinInterval  time.Duration
	ProbeTimeout time.Duration
}

// resolutionSpec is the JSON shape of one subdomain entry in Resolutions.
type resolutionSpec struct {
	IPs        []string `json:"ips"`
	HealthPort int      `json:"health_port"`
}

// Materialize parses the JSON-valued settings and builds domain objects
// from them. Endpoints start out healthy so the first published zone is
// servable before any probe has run.
func (c *AppConfig) Materialize() (*ServerConfig, error) {
	var aliases []string
	if c.Aliases != "" {
		if err := json.Unmarshal([]byte(c.Aliases), &aliases); err != nil {
			return nil, fmt.Errorf("parsing aliases: %w", err)
		}
	}

	origins, err := domain.NewZoneOrigins(c.Zone, aliases)
	if err != nil {
		return nil, err
	}

	var rawServers []string
	if err := json.Unmarshal([]byte(c.NameServers), &rawServers); err != nil {
		return nil, fmt.Errorf("parsing name_servers: %w", err)
	}
	if len(rawServers) == 0 {
		return nil, fmt.Errorf("name_servers must list at least one server")
	}
	servers := make([]string, 0, len(rawServers))
	for _, ns := range rawServers {
		ns = domain.CanonicalName(ns)
		if !strings.Contains(ns, ".") {
			ns = ns + "." + origins.Primary()
		}
		if err := domain.ValidateName(ns); err != nil {
			return nil, fmt.Errorf("invalid name server %q: %w", ns, err)
		}
		servers = append(servers, ns)
	}

	var resolutions map[string]resolutionSpec
	if err := json.Unmarshal([]byte(c.Resolutions), &resolutions); err != nil {
		return nil, fmt.Errorf("parsing resolutions: %w", err)
	}
	if len(resolutions) == 0 {
		return nil, fmt.Errorf("resolutions must define at least one subdomain")
	}

	sets := make([]domain.EndpointSet, 0, len(resolutions))
	for subdomain, spec := range resolutions {
		endpoints := make([]domain.Endpoint, 0, len(spec.IPs))
		for _, ip := range spec.IPs {
			ep, err := domain.NewEndpoint(ip, spec.HealthPort, true)
			if err != nil {
				return nil, fmt.Errorf("subdomain %q: %w", subdomain, err)
			}
			endpoints = append(endpoints, ep)
		}
		set, err := domain.NewEndpointSet(subdomain, endpoints)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	slices.SortFunc(sets, func(a, b domain.EndpointSet) int {
		return strings.Compare(a.Subdomain, b.Subdomain)
	})

	var key *dnssec.Key
	if c.DNSSECKeyFile != "" {
		key, err = dnssec.LoadKey(c.DNSSECKeyFile, c.DNSSECAlgorithm)
		if err != nil {
			return nil, err
		}
	}

	return &ServerConfig{
		Origins:      origins,
		NameServers:  servers,
		Sets:         sets,
		Key:          key,
		MinInterval:  c.MinInterval,
		ProbeTimeout: c.ProbeTimeout,
	}, nil
}
