// Package zipcrack recovers the ZipCrypto (traditional PKWARE) stream
// cipher's internal key triple from a ciphertext and a matching run of
// known plaintext, using the Biham-Kocher known-plaintext attack.
//
// # Overview
//
// Given at least twelve contiguous bytes of known plaintext aligned at a
// known offset within an encrypted stream, Driver.FindKeys returns the
// cipher's internal key triple (X, Y, Z). Once the triple is known, any
// ciphertext produced by the same encryption session can be decrypted
// without the password.
//
// # Attack pipeline
//
//	plaintext XOR ciphertext -> keystream
//	  -> Zreduction (generate + reduce)
//	  -> Attack, iterated over surviving Z candidates
//	  -> Keys, back-propagated to the session-initial triple
//
// # Basic usage
//
//	data, err := zipcrack.NewData(plaintext, ciphertext, offset)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	driver, err := zipcrack.NewDriver(zipcrack.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	keysvec, err := driver.FindKeys(context.Background(), data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(keysvec[0].String())
//
// # Archives
//
// Plaintext and ciphertext are usually entries inside ZIP archives rather
// than bare files. EntryReader abstracts over both; ZipEntryReader reads
// directly from an archive/zip.Reader, and AutoPair locates a matching
// plaintext/cipher entry pair by comparing stored CRC32 values.
//
// # Keystore
//
// Once a key triple is recovered, KeyStore can persist it behind a
// passphrase (Argon2id key derivation, AES-256-GCM sealing,
// CMAC/S2V-tagged entry naming) so later sessions can skip the attack
// entirely.
package zipcrack
