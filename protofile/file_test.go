package protofile

import (
	"crypto/rand"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

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

func testProtoFile(t *testing.T, variant string, intentNew func(dir, filename string) (ProtoFile, error)) {
	scratchDir := t.TempDir()

	Convey(variant, t, func() {
		Convey("creates a new file", func() {
			filename := tempFileName()
			f, err := intentNew(scratchDir, filename)
			So(err, ShouldBeNil)
			So(f, ShouldNotBeNil)
			if f == nil {
				return
			}

			n, err := io.Copy(f, strings.NewReader("DELME"))
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 5)

			So(f.Persist(), ShouldBeNil)
			got, err := os.ReadFile(filepath.Join(scratchDir, filename))
			So(err, ShouldBeNil)
			So(string(got), ShouldEqual, "DELME")
			So(f.Zap(), ShouldBeNil)
		})

		Convey("the file is not in visible namespace until persisted", func() {
			filename := tempFileName()
			f, err := intentNew(scratchDir, filename)
			So(err, ShouldBeNil)
			if f == nil {
				return
			}

			_, err = os.Stat(filepath.Join(scratchDir, filename))
			So(os.IsNotExist(err), ShouldBeTrue)
			io.Copy(f, strings.NewReader("DELME"))
			_, err = os.Stat(filepath.Join(scratchDir, filename))
			So(os.IsNotExist(err), ShouldBeTrue)

			So(f.Persist(), ShouldBeNil)
			_, err = os.Stat(filepath.Join(scratchDir, filename))
			So(err, ShouldBeNil)
		})

		Convey("the file will not materialize after having been zapped", func() {
			filename := tempFileName()
			f, err := intentNew(scratchDir, filename)
			So(err, ShouldBeNil)
			if f == nil {
				return
			}

			io.Copy(f, strings.NewReader("DELME"))
			So(f.SizeWillBe(1<<16), ShouldBeNil)

			f.Zap()
			_, err = os.Stat(filepath.Join(scratchDir, filename))
			So(os.IsNotExist(err), ShouldBeTrue)
		})

		Convey("an existing file gets replaced", func() {
			filename := tempFileName()
			So(os.WriteFile(filepath.Join(scratchDir, filename), []byte("OLD"), 0o600), ShouldBeNil)

			f, err := intentNew(scratchDir, filename)
			So(err, ShouldBeNil)
			if f == nil {
				return
			}
			io.Copy(f, strings.NewReader("NEW"))
			So(f.Persist(), ShouldBeNil)

			got, err := os.ReadFile(filepath.Join(scratchDir, filename))
			So(err, ShouldBeNil)
			So(string(got), ShouldEqual, "NEW")
		})
	})
}

func TestGeneralizedProtoFile(t *testing.T) {
	testProtoFile(t, "GeneralizedProtoFile", intentNewUniversal)
}

func TestIntentNew(t *testing.T) {
	testProtoFile(t, "IntentNew", IntentNew)
}
