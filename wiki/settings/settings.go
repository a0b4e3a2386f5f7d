// Package settings reads and edits the LocalSettings.php file of a
// MediaWiki installation.
//
// The reader is not a PHP parser. It tolerates exactly the subset of
// syntax the backup needs: top-level assignments of a single- or
// double-quoted scalar, one per line, with the last assignment winning.
package settings

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// FileName is the name of the configuration file inside the wiki
// installation directory.
const FileName = "LocalSettings.php"

// ErrNotFound is returned when LocalSettings.php does not exist.
var ErrNotFound = errors.New("LocalSettings.php not found")

// FieldMissingError indicates that a setting required for the detected
// database backend is not present in LocalSettings.php.
type FieldMissingError struct {
	Key string
}

func (e FieldMissingError) Error() string {
	return fmt.Sprintf("required setting $%v not found in LocalSettings.php", e.Key)
}

// Backend identifies how the wiki stores its database.
type Backend int

const (
	// Networked is a client/server database reached over a socket.
	Networked Backend = iota

	// EmbeddedFile is a single-file database exported through the wiki's
	// own maintenance scripts.
	EmbeddedFile
)

func (b Backend) String() string {
	if b == EmbeddedFile {
		return "embedded-file"
	}

	return "networked"
}

// Config is the subset of LocalSettings.php the backup needs.
type Config struct {
	Backend  Backend
	DBName   string
	Host     string
	User     string
	Password string
	Charset  string
	DataDir  string
}

// Setting names scanned out of LocalSettings.php.
const (
	keyDBType       = "wgDBtype"
	keyDBName       = "wgDBname"
	keyDBServer     = "wgDBserver"
	keyDBUser       = "wgDBuser"
	keyDBPassword   = "wgDBpassword"
	keyTableOptions = "wgDBTableOptions"
	keySQLiteDir    = "wgSQLiteDataDir"
)

// embeddedBackendValue is the $wgDBtype value that selects the
// embedded-file backend.
const embeddedBackendValue = "sqlite"

// assignmentRegexp matches `$key = "value";` and `$key = 'value';` with
// optional whitespace. Group 1 is the key, groups 2 and 3 are the
// double- and single-quoted values.
var assignmentRegexp = regexp.MustCompile(`^\s*\$(\w+)\s*=\s*(?:"([^"]*)"|'([^']*)')\s*;`)

// Load reads LocalSettings.php at the provided path and extracts the
// settings required to back up the wiki. It returns ErrNotFound when the
// file is absent and FieldMissingError when a setting required for the
// detected backend is missing.
func Load(path string) (*Config, error) {
	values, err := scan(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{Charset: "binary"}

	if strings.EqualFold(values[keyDBType], embeddedBackendValue) {
		cfg.Backend = EmbeddedFile
		cfg.DBName = values[keyDBName]

		if cfg.DataDir = values[keySQLiteDir]; cfg.DataDir == "" {
			return nil, FieldMissingError{keySQLiteDir}
		}

		return cfg, nil
	}

	cfg.Backend = Networked

	for _, f := range []struct {
		key string
		dst *string
	}{
		{keyDBName, &cfg.DBName},
		{keyDBServer, &cfg.Host},
		{keyDBUser, &cfg.User},
		{keyDBPassword, &cfg.Password},
	} {
		if *f.dst = values[f.key]; *f.dst == "" {
			return nil, FieldMissingError{f.key}
		}
	}

	if cs := charsetFromTableOptions(values[keyTableOptions]); cs != "" {
		cfg.Charset = cs
	}

	return cfg, nil
}

func scan(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(ErrNotFound, path)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %v", path)
	}

	values := map[string]string{}

	for _, line := range strings.Split(string(b), "\n") {
		m := assignmentRegexp.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		// exactly one of the two value groups is non-empty for a
		// non-empty value, both are empty strings otherwise
		values[m[1]] = m[2] + m[3]
	}

	return values, nil
}

// charsetRegexp extracts the character set out of a $wgDBTableOptions
// value such as "ENGINE=InnoDB, DEFAULT CHARSET=utf8".
var charsetRegexp = regexp.MustCompile(`(?i)DEFAULT CHARSET\s*=\s*(\w+)`)

func charsetFromTableOptions(opts string) string {
	m := charsetRegexp.FindStringSubmatch(opts)
	if m == nil {
		return ""
	}

	return m[1]
}
