// Command zipcrack recovers a ZipCrypto internal key triple from a small
// amount of known plaintext, then optionally uses the recovered keys to
// decipher further archive entries.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/isgasho/zipcrack"
)

var log = logrus.New()

type options struct {
	cipherFile  string
	plainFile   string
	cipherZip   string
	plainZip    string
	cipherEntry string
	plainEntry  string

	offset      int
	plainSize   int
	exhaustive  bool
	knownKeys   string
	decipherOut string
	unzip       bool
	maxWorkers  int
	verbose     bool
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:   "zipcrack",
		Short: "recover ZipCrypto keys from known plaintext and decipher ZIP entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := root.Flags()
	flags.StringVarP(&opts.cipherFile, "cipher-file", "c", "", "raw ciphertext file (no archive)")
	flags.StringVarP(&opts.plainFile, "plain-file", "p", "", "raw known-plaintext file (no archive)")
	flags.StringVarP(&opts.cipherZip, "cipher-zip", "C", "", "encrypted ZIP archive")
	flags.StringVarP(&opts.plainZip, "plain-zip", "P", "", "ZIP archive holding a known-plaintext copy of an entry")
	flags.StringVar(&opts.cipherEntry, "cipher-entry", "", "entry name inside --cipher-zip (auto-paired with --plain-zip when both entry names are omitted)")
	flags.StringVar(&opts.plainEntry, "plain-entry", "", "entry name inside --plain-zip (auto-paired with --cipher-zip when both entry names are omitted)")
	flags.IntVarP(&opts.offset, "offset", "o", 0, "offset of the known plaintext within the ciphertext, after the 12-byte header")
	flags.IntVarP(&opts.plainSize, "plain-size", "t", 0, "cap the amount of known plaintext used (0 = unlimited)")
	flags.BoolVarP(&opts.exhaustive, "exhaustive", "e", false, "keep searching after the first key triple is found")
	flags.StringVarP(&opts.knownKeys, "keys", "k", "", "skip the attack and use an already-known key triple (format: x y z, hex)")
	flags.StringVarP(&opts.decipherOut, "decipher", "d", "", "decipher --cipher-zip's entry (or --cipher-file) to this path using the recovered keys")
	flags.BoolVarP(&opts.unzip, "inflate", "u", false, "inflate the deciphered entry (it was DEFLATE-compressed)")
	flags.IntVarP(&opts.maxWorkers, "jobs", "j", 0, "maximum worker goroutines (0 = all cores)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, opts *options) error {
	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	keysvec, err := resolveKeys(ctx, opts)
	if err != nil {
		return err
	}

	for _, keys := range keysvec {
		fmt.Println(keys.String())
	}

	if opts.decipherOut == "" {
		return nil
	}

	// Several key triples can only come from --exhaustive; deciphering
	// needs exactly one, so fall back to the first, as the reference CLI
	// does when it reports more than one candidate.
	return decipherTo(opts, keysvec[0])
}

// resolveKeys either parses an already-known triple (-k) or runs the
// recovery attack against the selected plaintext/ciphertext pair.
func resolveKeys(ctx context.Context, opts *options) ([]*zipcrack.Keys, error) {
	if opts.knownKeys != "" {
		var xs, ys, zs string
		if _, err := fmt.Sscanf(opts.knownKeys, "%s %s %s", &xs, &ys, &zs); err != nil {
			return nil, fmt.Errorf("invalid --keys value %q: %w", opts.knownKeys, err)
		}
		keys, err := zipcrack.ParseKeys(xs, ys, zs)
		if err != nil {
			return nil, err
		}
		return []*zipcrack.Keys{keys}, nil
	}

	plaintext, ciphertext, err := loadPair(opts)
	if err != nil {
		return nil, err
	}

	if opts.plainSize > 0 && len(plaintext) > opts.plainSize {
		plaintext = plaintext[:opts.plainSize]
	}

	data, err := zipcrack.NewData(plaintext, ciphertext, opts.offset)
	if err != nil {
		return nil, err
	}

	cfg := zipcrack.DefaultConfig()
	cfg.Exhaustive = opts.exhaustive
	cfg.Parallel.MaxWorkers = opts.maxWorkers
	cfg.Progress = func(done, total int) {
		if total > 0 {
			log.Debugf("reducing candidates: %d/%d", done, total)
		}
	}

	driver, err := zipcrack.NewDriver(cfg)
	if err != nil {
		return nil, err
	}

	log.Info("searching for the key triple")
	return driver.FindKeys(ctx, data)
}

// loadPair resolves the plaintext/ciphertext byte pair from whichever
// combination of raw-file and ZIP flags the caller supplied.
func loadPair(opts *options) (plaintext, ciphertext []byte, err error) {
	cipherEntry, plainEntry := opts.cipherEntry, opts.plainEntry

	if opts.cipherZip != "" && opts.plainZip != "" && cipherEntry == "" && plainEntry == "" {
		plainEntry, cipherEntry, err = zipcrack.AutoPair(opts.plainZip, opts.cipherZip)
		if err != nil {
			return nil, nil, err
		}
		log.Infof("auto-paired entries: plain=%q cipher=%q", plainEntry, cipherEntry)
		opts.plainEntry, opts.cipherEntry = plainEntry, cipherEntry
	}

	ciphertext, err = readEntry(opts.cipherZip, opts.cipherFile, cipherEntry)
	if err != nil {
		return nil, nil, err
	}
	plaintext, err = readEntry(opts.plainZip, opts.plainFile, plainEntry)
	if err != nil {
		return nil, nil, err
	}
	return plaintext, ciphertext, nil
}

// readEntry dispatches to the ZIP or raw-file EntryReader depending on
// which flags were set.
func readEntry(zipPath, rawPath, entry string) ([]byte, error) {
	if zipPath != "" {
		return zipcrack.ZipEntryReader{}.ReadEntry(zipPath, entry, 0)
	}
	if rawPath != "" {
		return zipcrack.RawFileReader{}.ReadEntry("", rawPath, 0)
	}
	return nil, zipcrack.NewInputError("source", "no ciphertext or plaintext source given")
}

// decipherTo strips the cipher off the configured cipher source and writes
// the result to opts.decipherOut.
func decipherTo(opts *options, keys *zipcrack.Keys) error {
	raw, err := readEntry(opts.cipherZip, opts.cipherFile, opts.cipherEntry)
	if err != nil {
		return err
	}

	dec := zipcrack.NewDecipherer(keys)
	plain, err := dec.DecryptAndInflate(raw, opts.unzip)
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.decipherOut, plain, 0o600); err != nil {
		return zipcrack.NewDecipherIOError(opts.decipherOut, err)
	}

	log.Infof("deciphered entry written to %s", opts.decipherOut)
	return nil
}
