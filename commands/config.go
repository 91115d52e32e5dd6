package commands

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/qclab/quorch/config"
	"github.com/qclab/quorch/log"
)

var cfgFile string

func init() {
	setConfig()
	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// enable ability to specify config file via flag
		viper.SetConfigFile(cfgFile)
	}
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debugln("Using config file:", viper.ConfigFileUsed())
	} else {
		log.Debugln("Config not found... ")
	}
}

func setConfig() {

	// Flags definition for the cluster
	RootCmd.PersistentFlags().StringP("cluster_url", "", "", "Address of the Slurm cluster login node")
	RootCmd.PersistentFlags().Int("cluster_port", config.DefaultSSHPort, "SSH port of the cluster login node")
	RootCmd.PersistentFlags().StringP("cluster_user_name", "u", "", "The username to authenticate on the cluster")
	RootCmd.PersistentFlags().StringP("cluster_password", "p", "", "The password to authenticate on the cluster")
	RootCmd.PersistentFlags().StringP("cluster_private_key", "k", "", "Path or content of the private key used to authenticate on the cluster")
	RootCmd.PersistentFlags().String("cluster_remote_base_directory", config.DefaultRemoteBaseDirectory, "Directory holding staged experiment files on the cluster side")
	RootCmd.PersistentFlags().String("cluster_run_command", "", "Command template executed by generated batch scripts, expanded with the instance and parameter file names")

	// Flags definition for local directories
	RootCmd.PersistentFlags().StringP("working_directory", "w", "", "Directory holding the local job registry")
	RootCmd.PersistentFlags().String("instances_directory", config.DefaultInstancesDirectory, "Directory enumerated for 3-SAT instance files")
	RootCmd.PersistentFlags().String("params_directory", config.DefaultParamsDirectory, "Directory enumerated for ready parameter files")
	RootCmd.PersistentFlags().String("results_directory", config.DefaultResultsDirectory, "Directory receiving run trace and result files")

	RootCmd.PersistentFlags().Int("workers_number", config.DefaultWorkersNumber, "Number of parallel submissions during a batch sweep")
	RootCmd.PersistentFlags().Duration("job_monitoring_time_interval", config.DefaultJobMonitoringTimeInterval, "Polling interval for job state monitoring")
	RootCmd.PersistentFlags().Bool("keep_job_remote_artifacts", false, "Keep the remote execution directory of completed jobs")

	// Bind flags for the cluster
	viper.BindPFlag("cluster_url", RootCmd.PersistentFlags().Lookup("cluster_url"))
	viper.BindPFlag("cluster_port", RootCmd.PersistentFlags().Lookup("cluster_port"))
	viper.BindPFlag("cluster_user_name", RootCmd.PersistentFlags().Lookup("cluster_user_name"))
	viper.BindPFlag("cluster_password", RootCmd.PersistentFlags().Lookup("cluster_password"))
	viper.BindPFlag("cluster_private_key", RootCmd.PersistentFlags().Lookup("cluster_private_key"))
	viper.BindPFlag("cluster_remote_base_directory", RootCmd.PersistentFlags().Lookup("cluster_remote_base_directory"))
	viper.BindPFlag("cluster_run_command", RootCmd.PersistentFlags().Lookup("cluster_run_command"))
	// Bind flags for local directories
	viper.BindPFlag("working_directory", RootCmd.PersistentFlags().Lookup("working_directory"))
	viper.BindPFlag("instances_directory", RootCmd.PersistentFlags().Lookup("instances_directory"))
	viper.BindPFlag("params_directory", RootCmd.PersistentFlags().Lookup("params_directory"))
	viper.BindPFlag("results_directory", RootCmd.PersistentFlags().Lookup("results_directory"))

	viper.BindPFlag("workers_number", RootCmd.PersistentFlags().Lookup("workers_number"))
	viper.BindPFlag("job_monitoring_time_interval", RootCmd.PersistentFlags().Lookup("job_monitoring_time_interval"))
	viper.BindPFlag("keep_job_remote_artifacts", RootCmd.PersistentFlags().Lookup("keep_job_remote_artifacts"))

	RootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.quorch.json)")

	// Environment Variables
	viper.SetEnvPrefix("quorch") // will be uppercased automatically - Become "QUORCH_"
	viper.AutomaticEnv()         // read in environment variables that match
	viper.BindEnv("cluster_url")
	viper.BindEnv("cluster_port")
	viper.BindEnv("cluster_user_name")
	viper.BindEnv("cluster_password")
	viper.BindEnv("cluster_private_key")
	viper.BindEnv("cluster_remote_base_directory")
	viper.BindEnv("cluster_run_command")
	viper.BindEnv("working_directory")
	viper.BindEnv("instances_directory")
	viper.BindEnv("params_directory")
	viper.BindEnv("results_directory")
	viper.BindEnv("workers_number")
	viper.BindEnv("job_monitoring_time_interval")
	viper.BindEnv("keep_job_remote_artifacts")

	// Setting Defaults
	viper.SetDefault("cluster_port", config.DefaultSSHPort)
	viper.SetDefault("cluster_remote_base_directory", config.DefaultRemoteBaseDirectory)
	viper.SetDefault("working_directory", ".")
	viper.SetDefault("instances_directory", config.DefaultInstancesDirectory)
	viper.SetDefault("params_directory", config.DefaultParamsDirectory)
	viper.SetDefault("results_directory", config.DefaultResultsDirectory)
	viper.SetDefault("workers_number", config.DefaultWorkersNumber)
	viper.SetDefault("job_monitoring_time_interval", config.DefaultJobMonitoringTimeInterval)
	viper.SetDefault("keep_job_remote_artifacts", false)
	viper.SetDefault("telemetry.service_name", "quorch")

	// Configuration file directories
	viper.SetConfigName("config.quorch") // name of config file (without extension)
	viper.AddConfigPath("/etc/quorch/")
	viper.AddConfigPath(".")

}

func getConfig() config.Configuration {
	configuration := config.Configuration{}
	configuration.WorkingDirectory = viper.GetString("working_directory")
	configuration.InstancesDirectory = viper.GetString("instances_directory")
	configuration.ParamsDirectory = viper.GetString("params_directory")
	configuration.ResultsDirectory = viper.GetString("results_directory")
	configuration.WorkersNumber = viper.GetInt("workers_number")
	configuration.JobMonitoringTimeInterval = viper.GetDuration("job_monitoring_time_interval")
	if configuration.JobMonitoringTimeInterval <= 0 {
		configuration.JobMonitoringTimeInterval = time.Duration(viper.GetInt("job_monitoring_time_interval")) * time.Second
	}
	configuration.KeepJobRemoteArtifacts = viper.GetBool("keep_job_remote_artifacts")

	configuration.Cluster.Name = viper.GetString("cluster_name")
	configuration.Cluster.URL = viper.GetString("cluster_url")
	configuration.Cluster.Port = viper.GetInt("cluster_port")
	configuration.Cluster.UserName = viper.GetString("cluster_user_name")
	configuration.Cluster.Password = viper.GetString("cluster_password")
	configuration.Cluster.PrivateKey = viper.GetString("cluster_private_key")
	configuration.Cluster.RemoteBaseDirectory = viper.GetString("cluster_remote_base_directory")
	configuration.Cluster.RunCommand = viper.GetString("cluster_run_command")
	if extra := viper.GetStringMap("cluster_extra"); len(extra) > 0 {
		configuration.Cluster.Extra = config.ExtraConfig(extra)
	}

	configuration.Telemetry.ServiceName = viper.GetString("telemetry.service_name")
	configuration.Telemetry.StatsdAddress = viper.GetString("telemetry.statsd_address")
	configuration.Telemetry.StatsiteAddress = viper.GetString("telemetry.statsite_address")
	return configuration
}
