package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/logger"
)

// CompileError reports a stage that failed to compile, or a program that
// failed to link when Stage is empty.
type CompileError struct {
	Program string
	Stage   string
	Log     string
}

func (e *CompileError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("program %s: link failed: %s", e.Program, e.Log)
	}
	return fmt.Sprintf("program %s: %s: %s", e.Program, e.Stage, e.Log)
}

// infoLog turns a raw GL info log into a single trimmed string.
func infoLog(raw []byte) string {
	s := strings.TrimRight(string(raw), "\x00 \r\n\t")
	if s == "" {
		return "no driver log"
	}
	return s
}

// link compiles every stage and links them into a program object. Stage
// objects are released whether or not linking succeeds.
func link(program string, stages []Stage) (uint32, error) {
	id := gl.CreateProgram()
	for _, s := range stages {
		obj, err := compileStage(program, s)
		if err != nil {
			gl.DeleteProgram(id)
			return 0, err
		}
		gl.AttachShader(id, obj)
		defer gl.DeleteShader(obj)
	}
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &n)
		raw := make([]byte, max(n, 1))
		gl.GetProgramInfoLog(id, n, nil, &raw[0])
		gl.DeleteProgram(id)

		err := &CompileError{Program: program, Log: infoLog(raw)}
		logger.Error("shader link failed", zap.String("program", program), zap.String("log", err.Log))
		return 0, err
	}
	return id, nil
}

func compileStage(program string, s Stage) (uint32, error) {
	obj := gl.CreateShader(s.Type)
	src, free := gl.Strs(s.Source + "\x00")
	gl.ShaderSource(obj, 1, src, nil)
	free()
	gl.CompileShader(obj)

	var status int32
	gl.GetShaderiv(obj, gl.COMPILE_STATUS, &status)
	if status == gl.TRUE {
		return obj, nil
	}

	var n int32
	gl.GetShaderiv(obj, gl.INFO_LOG_LENGTH, &n)
	raw := make([]byte, max(n, 1))
	gl.GetShaderInfoLog(obj, n, nil, &raw[0])
	gl.DeleteShader(obj)

	err := &CompileError{Program: program, Stage: s.File, Log: infoLog(raw)}
	logger.Error("shader compile failed",
		zap.String("program", program),
		zap.String("stage", s.File),
		zap.String("log", err.Log),
	)
	return 0, err
}
