/*
Package sink writes laid-out graphs to their destination: the standard output, a local file or
an object in an S3-compatible bucket ("s3://bucket/key").
*/
package sink
