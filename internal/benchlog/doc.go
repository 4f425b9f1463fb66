// Package benchlog turns the console output of the ko multiplication
// benchmark into a CSV table keyed by the (m, n, k) run parameters.
//
// Each run of the benchmark prints a block:
//
//	Called with: argc=7
//	./ko -m 1024 -n 65536 -k 8
//	...
//	Total time:  75.109 ms
//	Time/multp:   0.001 ms
//	Time/round:   0.009 ms
//	Ops/second:   0.873 mmps
//
// Blocks are separated by a blank line. A Driver parses blocks into a
// Registry and WriteReport prints it:
//
//	m,n,k,tt,tpm,tpr,mmps
//	1024,65536,8,75.109,0.001,0.009,0.873
package benchlog
