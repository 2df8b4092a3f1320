// Package cli implements the gophauth command-line client.
//
// Commands:
//
//	register   prompt for name, email, password and phones, then sign up
//	login      exchange a bearer token (-t or GOPHAUTH_TOKEN) for the account view
//	ping       check that the server answers
//
// Server responses are printed as indented JSON.
package cli
