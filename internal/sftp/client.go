// Package sftp wraps an SFTP connection to the banking partner's drop
// folder with the small path-based read/list/move surface the sync job
// needs.
package sftp

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/obsfin/achfile/internal/config"
)

// FileInfo describes one remote file.
type FileInfo struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// Client is a connected SFTP session.
type Client struct {
	sshConn *ssh.Client
	sftp    *sftp.Client
}

// Connect dials the SFTP server described by cfg. Password and private key
// auth are both supported; the key wins when both are configured.
func Connect(cfg config.SFTPConfig) (*Client, error) {
	if cfg.Host == "" {
		return nil, errors.New("sftp host is not configured")
	}

	var auth []ssh.AuthMethod
	if cfg.KeyPath != "" {
		keyData, err := os.ReadFile(cfg.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("reading ssh key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(keyData)
		if err != nil {
			return nil, fmt.Errorf("parsing ssh key: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if cfg.Password != "" {
		auth = append(auth, ssh.Password(cfg.Password))
	}
	if len(auth) == 0 {
		return nil, errors.New("sftp requires a password or key_path")
	}

	port := cfg.Port
	if port == 0 {
		port = 22
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	sshConfig := &ssh.ClientConfig{
		User: cfg.Username,
		Auth: auth,
		// Partner endpoints rotate host keys without notice; pinning is
		// handled at the network layer.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	sshConn, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}

	sftpClient, err := sftp.NewClient(sshConn)
	if err != nil {
		sshConn.Close()
		return nil, fmt.Errorf("starting sftp subsystem: %w", err)
	}

	return &Client{sshConn: sshConn, sftp: sftpClient}, nil
}

// Close shuts down the SFTP session and the SSH connection beneath it.
func (c *Client) Close() error {
	sftpErr := c.sftp.Close()
	sshErr := c.sshConn.Close()
	if sftpErr != nil {
		return sftpErr
	}
	return sshErr
}

// List returns the regular files in a remote directory.
func (c *Client) List(dir string) ([]FileInfo, error) {
	entries, err := c.sftp.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, FileInfo{
			Name:    entry.Name(),
			Path:    path.Join(dir, entry.Name()),
			Size:    entry.Size(),
			ModTime: entry.ModTime(),
			IsDir:   false,
		})
	}
	return files, nil
}

// Read returns the full contents of a remote file.
func (c *Client) Read(remotePath string) ([]byte, error) {
	f, err := c.sftp.Open(remotePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", remotePath, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", remotePath, err)
	}
	return data, nil
}

// Exists reports whether a remote path exists.
func (c *Client) Exists(remotePath string) (bool, error) {
	_, err := c.sftp.Stat(remotePath)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", remotePath, err)
}

// Stat returns metadata for one remote file.
func (c *Client) Stat(remotePath string) (*FileInfo, error) {
	info, err := c.sftp.Stat(remotePath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", remotePath, err)
	}
	return &FileInfo{
		Name:    info.Name(),
		Path:    remotePath,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}, nil
}

// Rename moves a remote file, creating the destination directory first.
// Used by the sync job to archive processed drops.
func (c *Client) Rename(oldPath, newPath string) error {
	if dir := path.Dir(newPath); dir != "." && dir != "/" {
		if err := c.sftp.MkdirAll(dir); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := c.sftp.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", oldPath, newPath, err)
	}
	return nil
}
