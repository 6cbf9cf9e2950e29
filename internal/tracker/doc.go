// Package tracker implements per-chat health tracking driven by chat commands.
//
// A chat has at most one active session mapping participant IDs to integer
// health counters. Route decides whether an incoming line addresses the bot
// and parses it into a Command; Controller runs the command against the
// session store and returns an Outcome; Render turns the Outcome into reply
// text plus a reaction for the chat gateway.
//
// Everything here is in-memory and synchronous. The only collaborator call is
// IdentityResolver, used to check that a mentioned user exists.
package tracker
