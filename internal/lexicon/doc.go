// Package lexicon decides which transcript words are on the blocklist.
//
// Entries and tokens are compared after textnorm.Normalize, using whole-word
// semantics: both sides are split into words (maximal runs of letters, digits,
// combining marks and underscores in any script) and an entry matches when its
// words appear as a contiguous run of the token's words. A short entry such as
// "cat" therefore never matches "category", while "idiot!" still matches
// "idiot".
package lexicon
