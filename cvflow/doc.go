// Package cvflow implements sparse.Session collaborators on top of OpenCV (gocv).
//
// ShiTomasi wraps goodFeaturesToTrack, LucasKanade wraps pyramidal Lucas-Kanade optical flow,
// BlurGray prepares BGR frames and MatRetainer manages lifetime of retained gocv.Mat frames.
// Package requires OpenCV to be installed.
package cvflow
