// Package components defines ECS components for the overlay entities.
package components
