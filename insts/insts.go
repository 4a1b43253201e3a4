// Package insts defines the instruction and operand vocabulary shared by
// the x86lite core: opcodes, condition codes, the five operand forms, and
// the decoded Instruction type.
//
// Unlike a byte-encoded ISA, x86lite never decodes an instruction from a
// byte stream at fetch time: a resolved Instruction is carried inline in
// the InsHead symbolic byte that the loader writes into memory (see
// package mach). This package therefore owns only the vocabulary, not a
// decoder — fetch in mach.Machine.Step is a type assertion, not a
// bit-field extraction.
package insts
