// Package simulate derives funnel metrics from a node/edge snapshot.
//
// Evaluation is a pure function of its inputs. With no connections every
// node is folded into running totals (simple mode); with at least one
// connection visitor units are propagated along the edges (graph mode).
// Negative global parameters and cyclic graphs both yield the all-zero
// snapshot; a cycle is additionally reported through the logger and the
// optional cycle hook.
package simulate
