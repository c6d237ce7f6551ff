// Package oven shells out to the High Fidelity oven executable to bake meshes
// and textures into their optimized runtime forms. The tool itself is opaque:
// this package only knows the invocation contract (-i/-o/-t) and the artifact
// naming scheme, and exposes an Executor seam so tests never launch a process.
package oven
