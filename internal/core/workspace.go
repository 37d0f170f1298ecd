package core

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	sh "github.com/codeskyblue/go-sh"
	"github.com/tilaunch/tilaunch/internal/logging"
	"github.com/tilaunch/tilaunch/internal/util"
)

// Project is a Titanium project directory of the workspace.
type Project struct {
	Name   string `json:"name" yaml:"name"`
	Dir    string `json:"dir" yaml:"dir"`
	Branch string `json:"branch,omitempty" yaml:"branch,omitempty"`
	Label  string `json:"label" yaml:"label"`
}

const gitBranchTimeout = 3 * time.Second

// BranchFunc reports the checked out branch of dir, "" when unknown.
type BranchFunc func(dir string) string

// ListProjects lists the workspace sub-directories holding a tiapp.xml, sorted by name.
// branch may be nil to skip branch labels.
func ListProjects(workspace string, branch BranchFunc) ([]Project, error) {
	if err := Assert(workspace != "" && util.IsDir(workspace), "workspace does not exist: %s", workspace); err != nil {
		return nil, err
	}
	names, err := util.ListDirsContaining(workspace, TiappFile)
	if err != nil {
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	if err := Assert(len(names) > 0, "workspace is empty: %s", workspace); err != nil {
		return nil, err
	}
	out := make([]Project, 0, len(names))
	for _, name := range names {
		p := Project{Name: name, Dir: filepath.Join(workspace, name)}
		if branch != nil {
			p.Branch = branch(p.Dir)
		}
		p.Label = ProjectLabel(p.Name, p.Branch)
		out = append(out, p)
	}
	return out, nil
}

func ProjectLabel(name, branch string) string {
	if branch == "" {
		return name
	}
	return name + " [" + branch + "]"
}

// FindProject looks a project up by name or directory.
func FindProject(projects []Project, key string) (Project, bool) {
	for _, p := range projects {
		if p.Name == key || p.Dir == key {
			return p, true
		}
	}
	return Project{}, false
}

// GitBranch runs `git rev-parse --abbrev-ref HEAD` in dir. Errors mean no label.
func GitBranch(dir string) string {
	session := sh.NewSession()
	session.Stderr = io.Discard
	out, err := session.SetDir(dir).
		SetTimeout(gitBranchTimeout).
		Command("git", "rev-parse", "--abbrev-ref", "HEAD").
		Output()
	if err != nil {
		logging.LogDebug("git_branch", fmt.Sprintf("No branch for %s - %v", dir, err))
		return ""
	}
	return strings.TrimSpace(string(out))
}
