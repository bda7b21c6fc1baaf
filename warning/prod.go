//go:build production

package warning

const enabled = false
