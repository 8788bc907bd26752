//go:build spritedebug

package sprite

// boundsCheck enables the validation of row and frame indices.
const boundsCheck = true
