// Package bundle converts a networked content source into a self-contained
// serverless bundle: bakeable assets go through the oven, everything else is
// copied verbatim, and the entity document's references are rewritten from
// the asset-server scheme to local file URLs.
package bundle
