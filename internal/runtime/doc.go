// Package runtime implements the container engine on containerd.
//
// A [Runtime] connects to a containerd daemon and satisfies
// [engine.Engine]. Base images are pulled from their registry, unpacked
// into a fuse-overlayfs snapshot, and used to create containers. Build
// containers idle on a long-running task so commands can be executed in
// sequence; service containers run the image entrypoint on the host
// network so the bound port is reachable directly.
//
// Committing a build container computes the diff between its snapshot
// and the base image, writes it as a new layer, and records a fresh
// tagged image whose config carries the entrypoint, environment,
// working directory, and exposed port. The base image's record is never
// modified. Tagged images can be written out as OCI archives.
//
// Example usage:
//
//	rt, err := runtime.New("/run/containerd/containerd.sock", "gantry")
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	if err := rt.Pull(ctx, "docker.io/library/python:3.11-slim"); err != nil {
//	    return err
//	}
//
//	ctr, err := rt.CreateBuild(ctx, "docker.io/library/python:3.11-slim", "build-1")
//	if err != nil {
//	    return err
//	}
//	defer ctr.Destroy(ctx)
//
//	if _, err := ctr.Exec(ctx, "/bin/sh", "pip install -r requirements.txt", nil, "/code"); err != nil {
//	    return err
//	}
package runtime
