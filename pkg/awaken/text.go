// Package awaken holds content shared by the awaken services.
package awaken

// indexText is served by the API root route.
const indexText = "Hello Hono!"

// IndexText returns the greeting shown on the API index.
func IndexText() string {
	return indexText
}
