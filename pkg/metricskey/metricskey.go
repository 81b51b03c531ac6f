package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	// StatsToolInvocations is a counter metric for total tool invocations
	StatsToolInvocations = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_invocations",
		Help:         "stats_tool_invocations provides total tool invocations",
		RequiredTags: []string{"tool", "provider", "status", "cache_hit"},
	}

	StatsCacheOperations = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_cache_operations",
		Help:         "stats_cache_operations provides total cache operations",
		RequiredTags: []string{"operation"},
	}

	StatsDiscoveryErrors = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_discovery_errors",
		Help:         "stats_discovery_errors provides total failed provider discovery attempts",
		RequiredTags: []string{"provider"},
	}

	StatsProviderTools = metrics.Describe{
		Type:         metrics.TypeGauge,
		Name:         "stats_provider_tools",
		Help:         "stats_provider_tools provides the number of tools discovered per provider",
		RequiredTags: []string{"provider"},
	}

	StatsAvailableTools = metrics.Describe{
		Type: metrics.TypeGauge,
		Name: "stats_available_tools",
		Help: "stats_available_tools provides the total number of tools in the current snapshot",
	}

	StatsHealthyProviders = metrics.Describe{
		Type: metrics.TypeGauge,
		Name: "stats_healthy_providers",
		Help: "stats_healthy_providers provides the number of providers that answered the last discovery",
	}
)

// Perf
var (
	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool", "provider"},
	}

	PerfProviderDiscovery = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_provider_discovery",
		Help:         "perf_provider_discovery provides duration of provider tool discovery",
		RequiredTags: []string{"provider"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfProviderDiscovery,
	&PerfToolCall,
	&StatsAvailableTools,
	&StatsCacheOperations,
	&StatsDiscoveryErrors,
	&StatsHealthyProviders,
	&StatsProviderTools,
	&StatsToolInvocations,
}
