// Package inspector reads an existing bundle back and reports what the
// launcher and LaunchServices will see.
package inspector
