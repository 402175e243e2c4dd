// Package manifest loads and validates the build-time inputs of a project.
//
// A project root must contain the dependency manifest (requirements.txt),
// the project metadata file (pyproject.toml), the application source tree
// (app/), and the test source tree (tests/). [Load] checks that all four
// are present, parses both files, and verifies that the entry-point module
// referenced by the launch command exists. A missing or unparsable input
// is a fatal validation error; no build is attempted against an incomplete
// project.
//
// Example usage:
//
//	project, err := manifest.Load(".")
//	if err != nil {
//	    return err
//	}
//
//	for _, req := range project.Requirements {
//	    fmt.Println(req.Name, req.Constraints)
//	}
package manifest
