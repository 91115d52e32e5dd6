package sshutil

import "io"

// MockSSHClient allows to mock an SSH Client
type MockSSHClient struct {
	MockRunCommand func(string) (string, error)
	MockCopyFile   func(source io.Reader, remotePath string, permissions string) error
}

// RunCommand to mock a command ran via SSH
func (s *MockSSHClient) RunCommand(cmd string) (string, error) {
	if s.MockRunCommand != nil {
		return s.MockRunCommand(cmd)
	}
	return "", nil
}

// CopyFile to mock a file copy via SSH
func (s *MockSSHClient) CopyFile(source io.Reader, remotePath string, permissions string) error {
	if s.MockCopyFile != nil {
		return s.MockCopyFile(source, remotePath, permissions)
	}
	return nil
}
