// Package validate checks an executed request's response against its
// operation's declared schema, producing the nine-entry ValidationError
// taxonomy uses to drive configurable crash criteria.
package validate
