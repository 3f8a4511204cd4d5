// Command zencoder builds a Partitioner from a Han text corpus and uses
// it to encode/decode byte payloads as sequences of Han characters,
// optionally wrapped in AES-CBC.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/abj1210/zencoder/corpus"
	"github.com/abj1210/zencoder/partition"
	"github.com/abj1210/zencoder/persist"
	"github.com/abj1210/zencoder/wordgraph"
	"github.com/abj1210/zencoder/zencoder"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "build":
		err = runBuild(os.Args[2:])
	case "encode":
		err = runEncode(os.Args[2:], false)
	case "decode":
		err = runDecode(os.Args[2:], false)
	case "encode-cipher":
		err = runEncode(os.Args[2:], true)
	case "decode-cipher":
		err = runDecode(os.Args[2:], true)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: zencoder <build|encode|decode|encode-cipher|decode-cipher> [flags]")
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	out := fs.String("out", "zencoder.blob", "path to write the built partitioner")
	trees := fs.Int("trees", partition.DefaultTreeCount, "number of Huffman dictionaries (K)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	patterns := fs.Args()
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	paths, err := corpus.ResolvePaths(patterns)
	if err != nil {
		return err
	}

	g := wordgraph.New()
	if err := corpus.BuildGraph(g, corpus.NewLoader(paths)); err != nil {
		return err
	}

	p, err := partition.Build(g, *trees, partition.NewSystemRand())
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := persist.Save(f, p); err != nil {
		return err
	}
	fmt.Printf("built partitioner from %d files, %d words, %d trees -> %s\n", len(paths), g.Size(), *trees, *out)
	return nil
}

func runEncode(args []string, useCipher bool) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	blobPath := fs.String("blob", "zencoder.blob", "path to a built partitioner")
	key := fs.String("key", "", "hex-encoded AES key (required by encode-cipher)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	payload := []byte(fs.Arg(0))

	p, err := loadPartitioner(*blobPath)
	if err != nil {
		return err
	}
	c := zencoder.New(p)

	if useCipher {
		keyBytes, err := hex.DecodeString(*key)
		if err != nil {
			return errors.Wrap(err, "zencoder: -key must be hex-encoded")
		}
		text, err := c.EncodeCipher(payload, keyBytes)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	}

	fmt.Println(c.EncodePlain(payload))
	return nil
}

func runDecode(args []string, useCipher bool) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	blobPath := fs.String("blob", "zencoder.blob", "path to a built partitioner")
	key := fs.String("key", "", "hex-encoded AES key (required by decode-cipher)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text := fs.Arg(0)

	p, err := loadPartitioner(*blobPath)
	if err != nil {
		return err
	}
	c := zencoder.New(p)

	if useCipher {
		keyBytes, err := hex.DecodeString(*key)
		if err != nil {
			return errors.Wrap(err, "zencoder: -key must be hex-encoded")
		}
		plaintext, err := c.DecodeCipher(text, keyBytes)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", plaintext)
		return nil
	}

	plaintext, err := c.DecodePlain(text)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", plaintext)
	return nil
}

func loadPartitioner(path string) (*partition.Partitioner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return persist.Load(f)
}
