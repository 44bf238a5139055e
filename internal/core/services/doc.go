// Package services implements the core business logic for FinQA.
//
// Services implement the driving ports and depend only on domain
// types and driven ports. The two central pieces are the
// AnswerAssembler, which decodes the sentinel-delimited answer
// stream, and the Conversation, which runs the question/answer
// state machine on top of it.
package services
