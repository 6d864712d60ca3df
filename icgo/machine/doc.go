// Package machine implements the Intcode machine: a word-addressed memory
// that grows on demand, a fetch-decode-execute core with position, immediate
// and relative addressing, and the I/O capabilities and pipes used to wire
// machines into pipelines.
package machine
