//go:build !production

package warning

const enabled = true
