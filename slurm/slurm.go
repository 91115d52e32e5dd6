// Package slurm drives batch execution of QAOA experiments on a Slurm
// cluster: remote file staging over SCP, sbatch submission, job monitoring
// and cancellation, all through an SSH session to the login node.
package slurm

import (
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"

	"github.com/qclab/quorch/config"
	"github.com/qclab/quorch/helper/sshutil"
)

// default permissions of staged files
const (
	filePermissions   = "0644"
	scriptPermissions = "0755"
)

type noJobFound struct {
	msg string
}

func (jid *noJobFound) Error() string {
	return jid.msg
}

func isNoJobFoundError(err error) bool {
	_, ok := errors.Cause(err).(*noJobFound)
	return ok
}

// GetSSHClient returns a SSH client to the cluster login node described by
// the configuration
func GetSSHClient(cfg config.Configuration) (*sshutil.SSHClient, error) {
	if cfg.Cluster.URL == "" {
		return nil, errors.New("cluster url is mandatory")
	}
	if cfg.Cluster.UserName == "" {
		return nil, errors.New("cluster user name is mandatory")
	}

	var auth []ssh.AuthMethod
	if cfg.Cluster.PrivateKey != "" {
		keyAuth, err := sshutil.ReadPrivateKey(cfg.Cluster.PrivateKey)
		if err != nil {
			return nil, err
		}
		auth = append(auth, keyAuth)
	}
	if cfg.Cluster.Password != "" {
		auth = append(auth, ssh.Password(cfg.Cluster.Password))
	}
	if len(auth) == 0 {
		return nil, errors.New("cluster authentication requires a private key or a password")
	}

	port := cfg.Cluster.Port
	if port == 0 {
		port = config.DefaultSSHPort
	}

	return &sshutil.SSHClient{
		Config: &ssh.ClientConfig{
			User:            cfg.Cluster.UserName,
			Auth:            auth,
			HostKeyCallback: ssh.InsecureIgnoreHostKey(),
			Timeout:         30 * time.Second,
		},
		Host: cfg.Cluster.URL,
		Port: port,
	}, nil
}
