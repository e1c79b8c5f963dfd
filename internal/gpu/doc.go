// Package gpu implements the device-facing half of the compositing
// pipeline: device acquisition, the per-effect program cache, the
// source texture cache, the ping-pong framebuffer pair, the shared
// fullscreen quad, and the per-composite render session that chains
// passes and reads the final target back to the CPU.
//
// The package builds on the gogpu/wgpu HAL, so the same code runs on
// Vulkan, Metal, DX12, and the software backend. Build with the nogpu
// tag to compile without any GPU backend; New then reports the device
// as unavailable and the caller degrades to its CPU path.
//
// Everything here is private to one Backend instance. Resources are
// released explicitly via Close; nothing relies on finalizers.
package gpu
