// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// NetAddress holds structured network address data for host and port.
// It implements flag.Value and pflag.Value.
type NetAddress struct {
	Host string
	Port int
}

// ParseServerFlags parses the reference server flags from args.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-c/-config json file path with configs
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-token bearer token required from clients
//	-disable-delta-set answer delta-set requests with MissingConfiguration
//	-delta-retention how long deletions are kept for delta sets
func ParseServerFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	var serverAddress NetAddress
	var jsonConfigPath string
	var requestTimeout, deltaRetention time.Duration
	var token string
	var disableDeltaSet bool

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&token, "token", "", "Bearer token required from clients")
	fs.BoolVar(&disableDeltaSet, "disable-delta-set", false, "Disable the delta-set endpoint")
	fs.DurationVar(&deltaRetention, "delta-retention", 0, "Deletion retention for delta sets (e.g., 24h)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		Server: Server{
			HTTPAddress:     serverAddress.String(),
			RequestTimeout:  requestTimeout,
			Token:           token,
			DisableDeltaSet: disableDeltaSet,
			DeltaRetention:  deltaRetention,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// BindClientFlags registers the client flags on fs and returns the config
// they are parsed into. The returned value is filled once fs is parsed.
func BindClientFlags(fs *pflag.FlagSet) *StructuredConfig {
	cfg := &StructuredConfig{}

	fs.StringVarP(&cfg.Adapter.HTTPAddress, "address", "a", "", "Collection service base URL")
	fs.DurationVar(&cfg.Adapter.RequestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&cfg.Adapter.Token, "token", "", "Bearer token")
	fs.StringVarP(&cfg.Storage.DB.DSN, "dsn", "d", "", "Local SQLite database DSN")
	fs.StringVarP(&cfg.JSONFilePath, "config", "c", "", "JSON config file path")
	fs.StringVarP(&cfg.Sync.Strategy, "strategy", "s", "", "Data store strategy: network, cache or sync")
	fs.IntVar(&cfg.Sync.BatchSize, "batch-size", 0, "Records pushed concurrently per batch")
	fs.IntVar(&cfg.Sync.PageSize, "page-size", 0, "Page size of auto-paginated pulls")
	fs.BoolVar(&cfg.Sync.UseDeltaFetch, "delta", false, "Use incremental pulls")
	fs.StringSliceVar(&cfg.Sync.Collections, "collections", nil, "Collections kept in sync by the background job")
	fs.DurationVar(&cfg.Workers.SyncInterval, "sync-interval", 0, "Background sync interval (e.g., 1m)")
	fs.StringVar(&cfg.Log.FilePath, "log-file", "", "Log file path")

	return cfg
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "host:port"
}
