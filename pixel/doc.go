// Package pixel implements the packed pixel formats a framebuffer surface can
// expose, and images that draw directly into surface memory.
package pixel
