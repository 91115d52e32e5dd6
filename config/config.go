// Package config defines configuration structures
package config

import (
	"strings"
	"time"

	"github.com/spf13/cast"
)

// DefaultWorkersNumber is the default number of parallel submissions during a batch sweep
const DefaultWorkersNumber int = 4

// DefaultSSHPort is the default port used to reach the cluster login node
const DefaultSSHPort int = 22

// DefaultJobMonitoringTimeInterval is the default polling interval for job state monitoring
const DefaultJobMonitoringTimeInterval = 5 * time.Second

// DefaultRemoteBaseDirectory is the default directory holding experiment files on the cluster side
const DefaultRemoteBaseDirectory = "quorch_experiments"

// DefaultInstancesDirectory is the default directory enumerated for 3-SAT instance files
const DefaultInstancesDirectory = "data/raw"

// DefaultParamsDirectory is the default directory enumerated for ready parameter files
const DefaultParamsDirectory = "params/ready"

// DefaultResultsDirectory is the default directory receiving run trace and result files
const DefaultResultsDirectory = "data/processed"

// Configuration holds config information filled by Cobra and Viper (see commands package for more information)
type Configuration struct {
	WorkingDirectory          string
	InstancesDirectory        string
	ParamsDirectory           string
	ResultsDirectory          string
	WorkersNumber             int
	JobMonitoringTimeInterval time.Duration
	KeepJobRemoteArtifacts    bool
	Cluster                   Cluster
	Telemetry                 Telemetry
}

// Cluster holds the settings used to reach the Slurm login node and to shape submitted jobs
type Cluster struct {
	Name                string
	URL                 string
	Port                int
	UserName            string
	Password            string
	PrivateKey          string
	RemoteBaseDirectory string
	// RunCommand is the command template executed by the generated batch
	// script. It is expanded with the remote instance and parameter file paths.
	RunCommand string
	Extra      ExtraConfig
}

// Telemetry holds the configuration for the telemetry service
type Telemetry struct {
	StatsdAddress   string
	StatsiteAddress string
	ServiceName     string
}

// ExtraConfig parameters for a given cluster (partition, gres, qos, ...).
//
// It has methods to automatically cast data to the desired type.
type ExtraConfig map[string]interface{}

// GetString returns the value of the given key casted into a string.
// An empty string is returned if not found.
func (ec ExtraConfig) GetString(name string) string {
	return cast.ToString(ec[name])
}

// GetStringOrDefault returns the value of the given key casted into a string.
// The given default value is returned if not found.
func (ec ExtraConfig) GetStringOrDefault(name, defaultValue string) string {
	if res := ec.GetString(name); res != "" {
		return res
	}
	return defaultValue
}

// GetBool returns the value of the given key casted into a boolean.
// False is returned if not found.
func (ec ExtraConfig) GetBool(name string) bool {
	return cast.ToBool(ec[name])
}

// GetInt returns the value of the given key casted into an int.
// Zero is returned if not found.
func (ec ExtraConfig) GetInt(name string) int {
	return cast.ToInt(ec[name])
}

// GetStringSlice returns the value of the given key casted into a slice of string.
// If the corresponding raw value is a string, it is splited on comas.
// A nil or empty slice is returned if not found.
func (ec ExtraConfig) GetStringSlice(name string) []string {
	val := ec[name]
	switch v := val.(type) {
	case string:
		return strings.Split(v, ",")
	default:
		return cast.ToStringSlice(ec[name])
	}
}
