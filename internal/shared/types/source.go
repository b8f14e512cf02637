package types

// SourceType is the discriminant of a DependencySource.
type SourceType string

const (
	SourceLocal SourceType = "local"
	SourceGit   SourceType = "git"
	SourcePyPI  SourceType = "pypi"
)

// DependencySource describes where a package is installed from. It is a
// closed union: only LocalSource, GitSource and PyPISource implement it.
type DependencySource interface {
	SourceType() SourceType
	isDependencySource()
}

// LocalSource installs from a path on the local filesystem.
type LocalSource struct {
	Type     SourceType `mapstructure:"type" json:"type"`
	Path     string     `mapstructure:"path" json:"path" validate:"required"`
	Editable bool       `mapstructure:"editable" json:"editable"`
}

// GitSource installs from a git repository. Ref is a tag, branch or commit
// and may be empty.
type GitSource struct {
	Type SourceType `mapstructure:"type" json:"type"`
	URL  string     `mapstructure:"url" json:"url" validate:"required"`
	Ref  string     `mapstructure:"ref" json:"ref,omitempty"`
}

// PyPISource installs a named entry from a package index.
type PyPISource struct {
	Type    SourceType `mapstructure:"type" json:"type"`
	Name    string     `mapstructure:"name" json:"name" validate:"required"`
	Version string     `mapstructure:"version" json:"version,omitempty"`
}

func (LocalSource) SourceType() SourceType { return SourceLocal }
func (GitSource) SourceType() SourceType   { return SourceGit }
func (PyPISource) SourceType() SourceType  { return SourcePyPI }

func (LocalSource) isDependencySource() {}
func (GitSource) isDependencySource()   {}
func (PyPISource) isDependencySource()  {}
