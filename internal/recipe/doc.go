// Package recipe derives and executes the bootstrap build sequence.
//
// A recipe is the ordered list of steps that turns a base runtime image
// into a runnable service image: establish the working directory, copy
// the dependency manifest and project metadata, install dependencies,
// copy the application and test sources, then declare the listen port
// and the launch entrypoint. Steps execute strictly in order inside a
// build container; the first failing step aborts the build and no image
// is committed.
//
// Dependency installation deliberately precedes the application-code
// copy so that code-only changes never re-run the installer.
//
// Container operations are delegated to an engine implementation. Step
// state (environment variables, working directory, shell) accumulates
// across steps, mirroring how the image's layers observe it.
//
// Example usage:
//
//	result, err := recipe.Run(ctx, eng, recipe.Options{
//	    Project: project,
//	    Tag:     "quiz-service:latest",
//	    BuildID: buildID,
//	})
//	if err != nil {
//	    return err
//	}
package recipe
