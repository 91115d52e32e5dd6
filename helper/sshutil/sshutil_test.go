package sshutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io"
	"io/ioutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func generateTestKey(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	block := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}
	return string(pem.EncodeToMemory(block))
}

func TestReadPrivateKeyFromContent(t *testing.T) {
	t.Parallel()
	auth, err := ReadPrivateKey(generateTestKey(t))
	require.NoError(t, err)
	require.NotNil(t, auth)
}

func TestReadPrivateKeyFromFile(t *testing.T) {
	t.Parallel()
	keyFile := t.TempDir() + "/id_rsa"
	require.NoError(t, ioutil.WriteFile(keyFile, []byte(generateTestKey(t)), 0600))
	auth, err := ReadPrivateKey(keyFile)
	require.NoError(t, err)
	require.NotNil(t, auth)
}

func TestReadPrivateKeyMalformed(t *testing.T) {
	t.Parallel()
	_, err := ReadPrivateKey("not a pem key")
	require.Error(t, err)
}

func TestMockSSHClient(t *testing.T) {
	t.Parallel()
	var ranCmd, copiedPath string
	c := &MockSSHClient{
		MockRunCommand: func(cmd string) (string, error) {
			ranCmd = cmd
			return "ok", nil
		},
		MockCopyFile: func(source io.Reader, remotePath string, permissions string) error {
			copiedPath = remotePath
			return nil
		},
	}

	out, err := c.RunCommand("squeue")
	require.NoError(t, err)
	require.Equal(t, "ok", out)
	require.Equal(t, "squeue", ranCmd)

	require.NoError(t, c.CopyFile(strings.NewReader("content"), "/remote/file", "0644"))
	require.Equal(t, "/remote/file", copiedPath)
}
