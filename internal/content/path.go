// Package content reads lecture files from a static content store.
package content

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrInvalidIdentifier is returned for identifiers that could escape the content root
var ErrInvalidIdentifier = errors.New("invalid identifier")

// Path returns the store-relative path of a lecture file:
// courses/<courseID>/<lectureID>.md, or lectures/<lectureID>.md for single-course layouts
// (empty courseID).
func Path(courseID, lectureID string) (string, error) {
	if err := validateID(lectureID, false); err != nil {
		return "", fmt.Errorf("lecture %q: %w", lectureID, err)
	}
	if err := validateID(courseID, true); err != nil {
		return "", fmt.Errorf("course %q: %w", courseID, err)
	}
	if courseID == "" {
		return path.Join("lectures", lectureID+".md"), nil
	}
	return path.Join("courses", courseID, lectureID+".md"), nil
}

func validateID(id string, allowEmpty bool) error {
	if id == "" {
		if allowEmpty {
			return nil
		}
		return ErrInvalidIdentifier
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return ErrInvalidIdentifier
	}
	return nil
}

// DeploymentBasePath maps a deployment target to the path prefix content is served under.
// An explicit override wins over the named target.
func DeploymentBasePath(deployment, override string) string {
	if override != "" {
		return "/" + strings.Trim(override, "/")
	}
	switch deployment {
	case "github":
		return "/js-course-mvp"
	default:
		return ""
	}
}
