// Package util provides small generic helpers shared by entityhttp packages.
package util
