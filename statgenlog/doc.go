// Package statgenlog is a thin structured-logging wrapper shared by every
// package in this module: a zerolog.Logger under the hood, JSON or
// console output, level configuration from a small enum, and variadic
// key/value fields rather than a builder API.
package statgenlog
