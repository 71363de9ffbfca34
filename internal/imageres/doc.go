// Package imageres makes every image reference of a document embeddable.
//
// Remote images are downloaded, data URIs decoded and local files checked.
// Anything that is not PNG or JPEG is re-encoded: images with transparency
// become PNG, the rest JPEG composited on white. Failures never abort a
// conversion; the reference degrades to its alt text and the Outcome says why.
package imageres
