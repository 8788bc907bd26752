//go:build !spritedebug

package sprite

const boundsCheck = false
