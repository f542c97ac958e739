package tmpfile

import (
	"bytes"
	"crypto/rand"
	"io"
	"os"
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

// Generates a new temporary file name without a path.
func tempFileName() string {
	buffer := make([]byte, 16)
	_, _ = rand.Read(buffer)
	for i := range buffer {
		buffer[i] = (buffer[i] % 25) + 97 // a–z
	}
	return string(buffer)
}

// writeThroughPath is what an external tool would do.
func writeThroughPath(path string, contents []byte) {
	w, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	So(err, ShouldBeNil)
	if err != nil {
		return
	}
	n, err := w.Write(contents)
	So(err, ShouldBeNil)
	So(n, ShouldEqual, len(contents))
	So(w.Close(), ShouldBeNil)
}

func readAllAndClose(f *os.File) []byte {
	So(f, ShouldNotBeNil)
	defer f.Close()
	got, err := io.ReadAll(f)
	So(err, ShouldBeNil)
	return got
}

// verifyProvider runs the properties every variant must satisfy.
func verifyProvider(t *testing.T, variant string, create func(name string) (Provider, error)) {
	t.Helper()

	Convey(variant, t, func() {
		Convey("is empty if nothing has been written", func() {
			p, err := create(tempFileName())
			So(err, ShouldBeNil)

			got := readAllAndClose(p.IntoFile())
			So(got, ShouldBeEmpty)
		})

		Convey("returns what has been written to its path", func() {
			large := make([]byte, 64<<10+4711)
			_, _ = rand.Read(large)

			for _, contents := range [][]byte{{}, []byte("DELME"), large} {
				p, err := create(tempFileName())
				So(err, ShouldBeNil)

				writeThroughPath(p.Path(), contents)
				got := readAllAndClose(p.IntoFile())
				So(len(got), ShouldEqual, len(contents))
				So(bytes.Equal(got, contents), ShouldBeTrue)
			}
		})

		Convey("reads back 'hello' for 'sample'", func() {
			p, err := create("sample")
			So(err, ShouldBeNil)

			writeThroughPath(p.Path(), []byte("hello"))
			So(string(readAllAndClose(p.IntoFile())), ShouldEqual, "hello")
		})

		Convey("hands out a handle that can be written to and sought", func() {
			p, err := create(tempFileName())
			So(err, ShouldBeNil)
			f := p.IntoFile()
			defer f.Close()

			n, err := f.WriteString("hello")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 5)
			off, err := f.Seek(1, io.SeekStart)
			So(err, ShouldBeNil)
			So(off, ShouldEqual, 1)
			buf := make([]byte, 4)
			_, err = io.ReadFull(f, buf)
			So(err, ShouldBeNil)
			So(string(buf), ShouldEqual, "ello")
		})

		Convey("leaves nothing behind once released", func() {
			p, err := create(tempFileName())
			So(err, ShouldBeNil)
			path := p.Path()
			writeThroughPath(path, []byte("DELME"))

			f := p.IntoFile()
			So(f.Close(), ShouldBeNil)
			_, err = os.Stat(path)
			So(os.IsNotExist(err), ShouldBeTrue)
		})

		Convey("leaves nothing behind when closed without conversion", func() {
			p, err := create(tempFileName())
			So(err, ShouldBeNil)
			path := p.Path()

			So(p.Close(), ShouldBeNil)
			_, err = os.Stat(path)
			So(os.IsNotExist(err), ShouldBeTrue)
			So(p.Close(), ShouldBeNil)
		})

		Convey("can be consumed only once", func() {
			p, err := create(tempFileName())
			So(err, ShouldBeNil)

			f := p.IntoFile()
			defer f.Close()
			So(p.Path(), ShouldEqual, "")
			So(p.IntoFile(), ShouldBeNil)
			So(p.Close(), ShouldBeNil)
		})

		Convey("never shares storage between two instances of the same name", func() {
			name := tempFileName()
			a, err := create(name)
			So(err, ShouldBeNil)
			b, err := create(name)
			So(err, ShouldBeNil)
			So(a.Path(), ShouldNotEqual, b.Path())

			writeThroughPath(a.Path(), []byte("A"))
			writeThroughPath(b.Path(), []byte("BB"))
			So(string(readAllAndClose(a.IntoFile())), ShouldEqual, "A")
			So(string(readAllAndClose(b.IntoFile())), ShouldEqual, "BB")
		})

		Convey("rejects names with NUL bytes", func() {
			p, err := create("a\x00b")
			So(p, ShouldBeNil)
			So(errors.Is(err, ErrInvalidName), ShouldBeTrue)
		})
	})
}
