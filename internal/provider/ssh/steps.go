package ssh

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/ports"
	"github.com/saveligulas/debian-setup/internal/provider/userfile"
)

// KeygenStep creates an ed25519 key pair at keyPath. The probe is the
// private key file alone: a key the user already has, whatever its type,
// satisfies the step.
type KeygenStep struct {
	keyPath string
	comment string
	fs      ports.FileSystem
	owner   userfile.Owner
}

// NewKeygenStep creates the keygen step.
func NewKeygenStep(keyPath, comment string, fs ports.FileSystem, owner userfile.Owner) *KeygenStep {
	return &KeygenStep{keyPath: keyPath, comment: comment, fs: fs, owner: owner}
}

// ID returns the step identifier.
func (s *KeygenStep) ID() compiler.StepID {
	return compiler.MustNewStepID("ssh:keygen")
}

// Criticality reports that key generation failures abort the run.
func (s *KeygenStep) Criticality() compiler.Criticality {
	return compiler.FailFast
}

// Check probes for the private key file.
func (s *KeygenStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	if s.fs.Exists(s.keyPath) {
		return compiler.StatusSatisfied, nil
	}
	return compiler.StatusNeedsApply, nil
}

// Plan describes the pending key pair.
func (s *KeygenStep) Plan(ctx compiler.RunContext) (compiler.Diff, error) {
	return compiler.NewDiff(compiler.DiffTypeAdd, "ssh-key", s.keyPath, "", "ed25519"), nil
}

// Apply generates the pair and writes both halves with conventional
// permissions, owned by the principal.
func (s *KeygenStep) Apply(ctx compiler.RunContext) error {
	if ctx.DryRun() {
		return nil
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return compiler.NewActionError(s.ID(), "", fmt.Errorf("generate key: %w", err))
	}

	block, err := ssh.MarshalPrivateKey(priv, s.comment)
	if err != nil {
		return compiler.NewActionError(s.ID(), "", fmt.Errorf("encode private key: %w", err))
	}
	privPEM := pem.EncodeToMemory(block)

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return compiler.NewActionError(s.ID(), "", fmt.Errorf("encode public key: %w", err))
	}
	pubLine := strings.TrimRight(string(ssh.MarshalAuthorizedKey(sshPub)), "\n")
	if s.comment != "" {
		pubLine += " " + s.comment
	}
	pubLine += "\n"

	if err := userfile.EnsureDir(s.fs, filepath.Dir(s.keyPath), 0700, s.owner); err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}
	if err := userfile.Write(s.fs, s.keyPath, privPEM, 0600, s.owner); err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}
	if err := userfile.Write(s.fs, s.keyPath+".pub", []byte(pubLine), 0644, s.owner); err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}
	return nil
}

var _ compiler.Step = (*KeygenStep)(nil)
