// Package sentencecase capitalizes the first letter of each sentence.
//
// A six-state machine watches the press stream for the shape
// "word, sentence-ending punctuation, space, letter" and applies a
// one-shot Shift to the letter. The transition matrix:
//
//	          PUNCT     LETTER    SPACE
//	         +----------------------------
//	 INIT    | INIT     WORD      INIT
//	 WORD    | ENDING   WORD      INIT
//	 MATCHED | ENDING   WORD      INIT
//	 ABBREV  | ABBREV   ABBREV    INIT
//	 ENDING  | INIT     ABBREV    PRIMED
//	 PRIMED  | INIT     MATCHED   PRIMED
//
// matching "a. a" and "a.  a" but not "a.. a" or "a.a. a". A bounded
// buffer of recent keycodes lets an ending check reject abbreviations
// such as "vs." and "etc.", and a state-history stack gives one level of
// rewind per backspace.
//
// Key classification is pluggable; the default covers letters, the
// sentence-ending punctuation . ! ?, symbols, space, and quotes (which
// are transparent so sentences can end in "...quote.'").
package sentencecase
