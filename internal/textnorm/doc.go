// Package textnorm folds transcript words and blocklist entries into a
// comparable form.
//
// Normalize removes diacritics (Latin combining marks and Arabic harakat),
// drops tatweel, folds Arabic letter variants (hamza carriers, alef maksura,
// teh marbuta) and applies Unicode case folding. The result is idempotent:
// Normalize(Normalize(s)) == Normalize(s).
package textnorm
